package network

import (
	"net"
	"sync/atomic"
	"time"
)

func newTcpConn(id string, imp net.Conn, rwtimeout time.Duration) *TcpConn {
	if rwtimeout < time.Duration(DefaultMinTimeoutSec)*time.Second {
		rwtimeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return &TcpConn{
		id:       id,
		imp:      imp,
		timeOut:  rwtimeout,
		status:   Connecting,
		chClosed: make(chan struct{}),
		chWrite:  make(chan *Packet, 10),
		chRead:   make(chan *Packet, 10),
	}
}

type TcpConn struct {
	imp net.Conn
	id  string

	chWrite  chan *Packet
	chRead   chan *Packet
	chClosed chan struct{}

	timeOut time.Duration

	status ConnStatus

	writeSize int64
	readSize  int64
}

func (s *TcpConn) ConnID() string {
	return s.id
}

func (s *TcpConn) Send(p *Packet) error {
	if !s.Enable() {
		return ErrDisconn
	}
	select {
	case <-s.chClosed:
		return ErrDisconn
	case s.chWrite <- p:
		return nil
	}
}

func (c *TcpConn) Close() error {
	select {
	case <-c.chClosed:
		return nil
	default:
		atomic.StoreInt32((*int32)(&c.status), Closed)

		close(c.chClosed)
		c.imp.Close()
		return nil
	}
}

func (s *TcpConn) RemoteAddr() string {
	if !s.Enable() {
		return ""
	}
	return s.imp.RemoteAddr().String()
}

func (s *TcpConn) Enable() bool {
	return s.Status() == Connected
}

func (s *TcpConn) Status() ConnStatus {
	return atomic.LoadInt32((*int32)(&s.status))
}

func (s *TcpConn) writeWork() error {
	for {
		select {
		case <-s.chClosed:
			return nil
		case p, ok := <-s.chWrite:
			if !ok {
				return nil
			}
			s.imp.SetWriteDeadline(time.Now().Add(s.timeOut))
			n, err := p.WriteTo(s.imp)
			if err != nil {
				return err
			}
			s.writeSize += n
		}
	}
}

func (s *TcpConn) readWork() error {
	for {
		s.imp.SetReadDeadline(time.Now().Add(s.timeOut))

		pk := NewPacket()
		n, err := pk.ReadFrom(s.imp)
		if err != nil {
			return err
		}

		s.readSize += n
		select {
		case <-s.chClosed:
			return nil
		case s.chRead <- pk:
		}
	}
}
