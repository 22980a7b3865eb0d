package network

import (
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
)

func newWSConn(id string, imp *ws.Conn, rwtimeout time.Duration) *WSConn {
	if rwtimeout < time.Duration(DefaultMinTimeoutSec)*time.Second {
		rwtimeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return &WSConn{
		id:       id,
		imp:      imp,
		timeOut:  rwtimeout,
		status:   Connecting,
		chClosed: make(chan struct{}),
		chWrite:  make(chan *Packet, 10),
		chRead:   make(chan *Packet, 10),
	}
}

type WSConn struct {
	imp *ws.Conn
	id  string

	chWrite  chan *Packet
	chRead   chan *Packet
	chClosed chan struct{}

	timeOut time.Duration

	status ConnStatus
}

func (c *WSConn) ConnID() string {
	return c.id
}

func (c *WSConn) Send(p *Packet) error {
	if !c.Enable() {
		return ErrDisconn
	}
	select {
	case <-c.chClosed:
		return ErrDisconn
	case c.chWrite <- p:
		return nil
	}
}

func (c *WSConn) Close() error {
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

func (c *WSConn) RemoteAddr() string {
	if !c.Enable() {
		return ""
	}
	return c.imp.RemoteAddr().String()
}

func (c *WSConn) Enable() bool {
	return c.Status() == Connected
}

func (c *WSConn) Status() ConnStatus {
	return atomic.LoadInt32((*int32)(&c.status))
}

func (c *WSConn) writePacket(p *Packet) error {
	writer, err := c.imp.NextWriter(ws.BinaryMessage)
	if err != nil {
		return err
	}
	defer writer.Close()
	_, err = p.WriteTo(writer)
	return err
}

func (c *WSConn) readPacket() (*Packet, error) {
	_, reader, err := c.imp.NextReader()
	if err != nil {
		return nil, err
	}
	pk := NewPacket()
	_, err = pk.ReadFrom(reader)
	return pk, err
}

func (c *WSConn) writeWork() error {
	for {
		select {
		case <-c.chClosed:
			return nil
		case p, ok := <-c.chWrite:
			if !ok {
				return nil
			}
			c.imp.SetWriteDeadline(time.Now().Add(c.timeOut))
			err := c.writePacket(p)
			if err != nil {
				return err
			}
		}
	}
}

func (c *WSConn) readWork() error {
	for {
		c.imp.SetReadDeadline(time.Now().Add(c.timeOut))
		pk, err := c.readPacket()
		if err != nil {
			return err
		}
		select {
		case <-c.chClosed:
			return nil
		case c.chRead <- pk:
		}
	}
}
