package network

import (
	"net"
	"sync"
	"time"
)

type TcpClientOptions struct {
	RemoteAddress string
	Timeout       time.Duration

	OnConnPacket FuncOnConnPacket
	OnConnEnable FuncOnConnEnable
}

func NewTcpClient(opts TcpClientOptions) *TcpClient {
	ret := &TcpClient{
		opts:   opts,
		closed: make(chan struct{}),
	}
	if ret.opts.Timeout < time.Duration(DefaultMinTimeoutSec)*time.Second {
		ret.opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return ret
}

type TcpClient struct {
	*TcpConn
	opts   TcpClientOptions
	mutex  sync.RWMutex
	closed chan struct{}
}

func (c *TcpClient) Start() error {
	connraw, err := net.DialTimeout("tcp", c.opts.RemoteAddress, c.opts.Timeout)
	if err != nil {
		return err
	}

	conn := newTcpConn(GenConnID(), connraw, c.opts.Timeout)
	conn.status = Connected

	c.mutex.Lock()
	c.TcpConn = conn
	c.mutex.Unlock()

	go c.work(conn)
	return nil
}

func (c *TcpClient) Stop() error {
	select {
	case <-c.closed:
		return nil
	default:
		close(c.closed)
	}
	if c.TcpConn != nil {
		c.TcpConn.Close()
	}
	return nil
}

func (c *TcpClient) onConnEnable(enable bool) {
	if c.opts.OnConnEnable != nil {
		c.opts.OnConnEnable(c.TcpConn, enable)
	}
}

func (c *TcpClient) work(conn *TcpConn) {
	defer c.onConnEnable(false)

	go func() {
		defer conn.Close()
		conn.writeWork()
	}()

	go func() {
		defer conn.Close()
		conn.readWork()
	}()

	c.onConnEnable(true)

	for {
		select {
		case <-c.closed:
			return
		case <-conn.chClosed:
			return
		case packet, ok := <-conn.chRead:
			if !ok {
				return
			}
			if c.opts.OnConnPacket != nil {
				c.opts.OnConnPacket(conn, packet)
			}
		}
	}
}
