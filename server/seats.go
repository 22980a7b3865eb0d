package server

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"tarotserv/core/network"
	"tarotserv/game/tarot"
	"tarotserv/protocol"
)

// Seat binds a table place to one connection. A seat with a nil conn
// is frozen: the place is still owned by the player but nothing can
// be delivered until a reconnect.
type Seat struct {
	Place tarot.Place
	Name  string
	Conn  network.Conn
}

func (s *Seat) Identified() bool {
	return s.Name != ""
}

// SeatStore maps places to seats in place order. Safe for use from
// the network goroutines and the room loop.
type SeatStore struct {
	imp  *treemap.Map
	lock sync.RWMutex
}

func NewSeatStore() *SeatStore {
	return &SeatStore{
		imp: treemap.NewWithIntComparator(),
	}
}

// Assign claims the lowest free place for conn. Returns Nowhere when
// all four places are taken.
func (ss *SeatStore) Assign(conn network.Conn) tarot.Place {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	for p := tarot.Place(0); p.Valid(); p = p + 1 {
		if _, found := ss.imp.Get(int(p)); !found {
			ss.imp.Put(int(p), &Seat{Place: p, Conn: conn})
			return p
		}
	}
	return tarot.Nowhere
}

func (ss *SeatStore) Get(p tarot.Place) *Seat {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	if v, found := ss.imp.Get(int(p)); found {
		return v.(*Seat)
	}
	return nil
}

// ByConn finds the seat bound to the given connection id.
func (ss *SeatStore) ByConn(connID string) *Seat {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	var ret *Seat
	ss.imp.Each(func(key, value interface{}) {
		s := value.(*Seat)
		if s.Conn != nil && s.Conn.ConnID() == connID {
			ret = s
		}
	})
	return ret
}

func (ss *SeatStore) SetName(p tarot.Place, name string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if v, found := ss.imp.Get(int(p)); found {
		v.(*Seat).Name = name
	}
}

// Freeze drops the connection from the seat but keeps the place
// claimed.
func (ss *SeatStore) Freeze(p tarot.Place) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if v, found := ss.imp.Get(int(p)); found {
		v.(*Seat).Conn = nil
	}
}

func (ss *SeatStore) Remove(p tarot.Place) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.imp.Remove(int(p))
}

func (ss *SeatStore) Size() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return ss.imp.Size()
}

// IdentifiedCount counts seats whose player has sent a valid
// Identify.
func (ss *SeatStore) IdentifiedCount() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	n := 0
	ss.imp.Each(func(key, value interface{}) {
		if value.(*Seat).Identified() {
			n++
		}
	})
	return n
}

// Roster snapshots the identified seats in place order.
func (ss *SeatStore) Roster() []protocol.PlayerEntry {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	ret := make([]protocol.PlayerEntry, 0, ss.imp.Size())
	ss.imp.Each(func(key, value interface{}) {
		s := value.(*Seat)
		if s.Identified() {
			ret = append(ret, protocol.PlayerEntry{
				Place: uint8(s.Place),
				Name:  s.Name,
			})
		}
	})
	return ret
}

// Send delivers one message to one seat. Frozen seats swallow the
// message.
func (ss *SeatStore) Send(p tarot.Place, m protocol.Message) {
	s := ss.Get(p)
	if s == nil || s.Conn == nil {
		return
	}
	s.Conn.Send(protocol.Encode(m))
}

// Broadcast delivers one message to every connected seat. The packet
// is encoded once.
func (ss *SeatStore) Broadcast(m protocol.Message) {
	pk := protocol.Encode(m)

	ss.lock.RLock()
	defer ss.lock.RUnlock()
	ss.imp.Each(func(key, value interface{}) {
		s := value.(*Seat)
		if s.Conn != nil {
			s.Conn.Send(pk)
		}
	})
}
