// Package server is the session layer: it seats connections, relays
// chat, feeds decoded messages to the game engine and fans the
// engine's events back out. One goroutine owns the engine; everything
// reaching it goes through the room's action queue.
package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	log "tarotserv/core/log"
	"tarotserv/core/network"
	"tarotserv/game/tarot"
	"tarotserv/protocol"
)

type RoomOptions struct {
	ID             string
	Rounds         int
	BarrierTimeout time.Duration
	Archive        *Archive
	SeedFn         func() int32
}

type Room struct {
	opts RoomOptions

	seats  *SeatStore
	engine *tarot.Engine

	actQue chan func()
	quit   chan bool

	// barrierGen invalidates pending barrier timers once the barrier
	// they guard has been crossed. Touched only on the room loop.
	barrierGen int
}

func NewRoom(opts RoomOptions) *Room {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.BarrierTimeout <= 0 {
		opts.BarrierTimeout = 30 * time.Second
	}

	return &Room{
		opts:  opts,
		seats: NewSeatStore(),
		engine: tarot.NewEngine(tarot.EngineOptions{
			Rounds: opts.Rounds,
			SeedFn: opts.SeedFn,
		}),
		actQue: make(chan func(), 10),
		quit:   make(chan bool),
	}
}

func (r *Room) Start() {
	go func() {
		safecall := func(f func()) {
			defer func() {
				if err := recover(); err != nil {
					log.Errorf("room %s: panic: %v", r.opts.ID, err)
				}
			}()
			f()
		}

		tk := time.NewTicker(1 * time.Second)
		defer tk.Stop()

		for {
			select {
			case f := <-r.actQue:
				safecall(f)
			case <-tk.C:
				safecall(r.onTick)
			case <-r.quit:
				return
			}
		}
	}()
}

func (r *Room) Close() {
	select {
	case <-r.quit:
		return
	default:
	}
	close(r.quit)
}

// Do schedules f onto the room loop.
func (r *Room) Do(f func()) {
	r.actQue <- f
}

func (r *Room) AfterFunc(td time.Duration, f func()) {
	time.AfterFunc(td, func() {
		r.Do(f)
	})
}

// OnConnEnable is the network callback for connect and disconnect.
func (r *Room) OnConnEnable(conn network.Conn, enable bool) {
	r.Do(func() {
		if enable {
			r.onConnect(conn)
		} else {
			r.onDisconnect(conn)
		}
	})
}

// OnConnPacket is the network callback for inbound frames.
func (r *Room) OnConnPacket(conn network.Conn, pk *network.Packet) {
	msg, err := protocol.Decode(pk)
	if err != nil {
		log.Warnf("room %s: conn %s: %v", r.opts.ID, conn.ConnID(), err)
		return
	}
	r.Do(func() {
		r.dispatch(conn, msg)
	})
}

func (r *Room) onConnect(conn network.Conn) {
	place := r.seats.Assign(conn)
	if place == tarot.Nowhere {
		conn.Send(protocol.Encode(&protocol.ServerFull{}))
		conn.Close()
		return
	}

	log.Infof("room %s: conn %s seated at %s", r.opts.ID, conn.ConnID(), place)
	r.seats.Send(place, &protocol.RequestIdentity{
		Place:     uint8(place),
		NbPlayers: tarot.NbPlaces,
	})
}

func (r *Room) onDisconnect(conn network.Conn) {
	seat := r.seats.ByConn(conn.ConnID())
	if seat == nil {
		return
	}

	log.Infof("room %s: %s left seat %s", r.opts.ID, conn.ConnID(), seat.Place)

	if seat.Identified() && r.engine.Phase() != tarot.PhaseIdle {
		// Mid-game the place stays owned so the player can come back.
		r.seats.Freeze(seat.Place)
		r.notice(fmt.Sprintf("%s disconnected", seat.Name))
	} else {
		r.seats.Remove(seat.Place)
	}
	r.seats.Broadcast(&protocol.PlayersList{Players: r.seats.Roster()})
}

func (r *Room) dispatch(conn network.Conn, msg protocol.Message) {
	seat := r.seats.ByConn(conn.ConnID())
	if seat == nil {
		return
	}

	switch m := msg.(type) {
	case *protocol.Identify:
		r.onIdentify(seat, m)
		return
	case *protocol.ChatMessage:
		if seat.Identified() {
			r.seats.Broadcast(&protocol.ChatBroadcast{
				Name: seat.Name,
				Text: m.Text,
			})
		}
		return
	}

	if !seat.Identified() {
		return
	}

	act, err := toAction(msg)
	if err != nil {
		log.Warnf("room %s: seat %s: bad message: %v", r.opts.ID, seat.Place, err)
		return
	}
	if act == nil {
		return
	}

	r.apply(seat.Place, act)
}

func (r *Room) onIdentify(seat *Seat, m *protocol.Identify) {
	if m.Name == "" || seat.Identified() {
		return
	}

	r.seats.SetName(seat.Place, m.Name)
	log.Infof("room %s: seat %s is %q", r.opts.ID, seat.Place, m.Name)

	r.notice(fmt.Sprintf("%s joined the table", m.Name))
	r.seats.Broadcast(&protocol.PlayersList{Players: r.seats.Roster()})

	if r.seats.IdentifiedCount() == tarot.NbPlaces &&
		r.engine.Phase() == tarot.PhaseIdle {
		log.Infof("room %s: table complete, starting", r.opts.ID)
		r.engine.NewGame()
		r.drainEvents()
	}
}

func (r *Room) apply(p tarot.Place, act tarot.Action) {
	err := r.engine.Apply(p, act)

	var illegal *tarot.IllegalActionError
	var fatal *tarot.FatalError
	switch {
	case err == nil:
	case errors.As(err, &illegal):
		log.Debugf("room %s: refused %s: %v", r.opts.ID, p, err)
		r.seats.Send(p, &protocol.ActionRefused{Reason: uint8(illegal.Reason)})
	case errors.As(err, &fatal):
		log.Errorf("room %s: %v", r.opts.ID, err)
	default:
		log.Errorf("room %s: engine: %v", r.opts.ID, err)
	}

	r.drainEvents()
}

// drainEvents flushes the engine's event queue to the seats and arms
// a timer for every barrier it opens.
func (r *Room) drainEvents() {
	for {
		ev, ok := r.engine.PollEvent()
		if !ok {
			return
		}

		if dt, isTrumps := ev.Payload.(tarot.EvDiscardTrumps); isTrumps {
			names := make([]string, 0, len(dt.Cards))
			for _, c := range dt.Cards {
				names = append(names, c.Name())
			}
			r.notice("trumps buried: " + strings.Join(names, ";"))
			continue
		}

		msg, err := toMessage(ev.Payload)
		if err != nil {
			log.Errorf("room %s: %v", r.opts.ID, err)
			continue
		}

		if ev.To == tarot.Everyone {
			r.seats.Broadcast(msg)
		} else {
			r.seats.Send(ev.To, msg)
		}

		switch p := ev.Payload.(type) {
		case tarot.EvDogRevealed:
			if !p.ForDiscard {
				r.armBarrier(tarot.BarrierDog)
			}
		case tarot.EvHandleShown:
			r.armBarrier(tarot.BarrierHandle)
		case tarot.EvTrickResult:
			r.armBarrier(tarot.BarrierTrick)
		case tarot.EvDealResult:
			if r.opts.Archive != nil {
				if err := r.opts.Archive.Append(r.opts.ID, r.engine.Deal(), p); err != nil {
					log.Errorf("room %s: archive: %v", r.opts.ID, err)
				}
			}
			if p.Final {
				// Tournament over, nobody owes a ready. Park the
				// engine so the table can be reclaimed.
				for seat := tarot.Place(0); seat.Valid(); seat++ {
					r.engine.Apply(seat, tarot.ReadyAction{})
				}
				log.Infof("room %s: tournament finished, totals %v", r.opts.ID, p.Totals)
			}
		}
	}
}

// armBarrier bounds how long the table waits at a synchronization
// point. A seat that never acks is treated like a disconnect: the
// room acks on its behalf and the game moves on.
func (r *Room) armBarrier(b tarot.Barrier) {
	r.barrierGen++
	gen := r.barrierGen

	r.AfterFunc(r.opts.BarrierTimeout, func() {
		if gen != r.barrierGen || r.engine.Phase() != barrierPhase(b) {
			return
		}
		log.Warnf("room %s: barrier %s timed out", r.opts.ID, r.engine.Phase())
		for p := tarot.Place(0); p.Valid(); p++ {
			if err := r.engine.Apply(p, tarot.AckAction{Barrier: b}); err != nil {
				log.Debugf("room %s: forced ack %s: %v", r.opts.ID, p, err)
			}
		}
		r.drainEvents()
	})
}

func barrierPhase(b tarot.Barrier) tarot.Phase {
	switch b {
	case tarot.BarrierDog:
		return tarot.PhaseDogReveal
	case tarot.BarrierHandle:
		return tarot.PhaseHandleReveal
	case tarot.BarrierTrick:
		return tarot.PhaseTrickSync
	}
	return tarot.PhaseIdle
}

func (r *Room) onTick() {
	// Frozen seats are only reclaimable between games.
	if r.engine.Phase() != tarot.PhaseIdle {
		return
	}
	for p := tarot.Place(0); p.Valid(); p++ {
		if s := r.seats.Get(p); s != nil && s.Conn == nil {
			r.seats.Remove(p)
		}
	}
}

func (r *Room) notice(text string) {
	r.seats.Broadcast(&protocol.ChatBroadcast{Name: "", Text: text})
}
