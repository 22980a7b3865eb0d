package network

import (
	"net"
	"sync"
	"time"

	log "tarotserv/core/log"
)

type TcpServerOptions struct {
	ListenAddr   string
	Timeout      time.Duration
	OnConnPacket FuncOnConnPacket
	OnConnEnable FuncOnConnEnable
	OnConnAccept func(net.Conn) bool
}

func NewTcpServer(opts TcpServerOptions) (*TcpServer, error) {
	ret := &TcpServer{
		opts: opts,
		die:  make(chan bool),
	}
	if ret.opts.Timeout < time.Duration(DefaultMinTimeoutSec)*time.Second {
		ret.opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	listener, err := net.Listen("tcp", opts.ListenAddr)
	if err != nil {
		return nil, err
	}
	ret.listener = listener
	return ret, nil
}

type TcpServer struct {
	opts     TcpServerOptions
	mu       sync.RWMutex
	die      chan bool
	listener net.Listener
}

func (s *TcpServer) Stop() error {
	select {
	case <-s.die:
		return nil
	default:
		close(s.die)
	}
	s.listener.Close()
	return nil
}

func (s *TcpServer) Start() error {
	go func() {
		var tempDelay time.Duration = 0
		for {
			select {
			case <-s.die:
				return
			default:
				conn, err := s.listener.Accept()
				if err != nil {
					if ne, ok := err.(net.Error); ok && ne.Timeout() {
						if tempDelay == 0 {
							tempDelay = 5 * time.Millisecond
						} else {
							tempDelay *= 2
						}
						if max := 1 * time.Second; tempDelay > max {
							tempDelay = max
						}
						time.Sleep(tempDelay)
						continue
					}
					log.Error(err)
					return
				}
				tempDelay = 0
				go s.onAccept(conn)
			}
		}
	}()
	return nil
}

func (s *TcpServer) onAccept(c net.Conn) {
	defer c.Close()

	if s.opts.OnConnAccept != nil {
		if !s.opts.OnConnAccept(c) {
			return
		}
	}

	conn := newTcpConn(GenConnID(), c, s.opts.Timeout)
	conn.status = Connected

	go func() {
		defer conn.Close()
		conn.writeWork()
	}()

	go func() {
		defer conn.Close()
		conn.readWork()
	}()

	if s.opts.OnConnEnable != nil {
		s.opts.OnConnEnable(conn, true)
		defer s.opts.OnConnEnable(conn, false)
	}

	for {
		select {
		case <-conn.chClosed:
			return
		case <-s.die:
			conn.Close()
			return
		case packet, ok := <-conn.chRead:
			if !ok {
				return
			}
			if s.opts.OnConnPacket != nil {
				s.opts.OnConnPacket(conn, packet)
			}
		}
	}
}

func (s *TcpServer) Address() net.Addr {
	return s.listener.Addr()
}
