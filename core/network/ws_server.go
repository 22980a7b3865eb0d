package network

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	log "tarotserv/core/log"
)

type WSServerOptions struct {
	ListenAddr   string
	Timeout      time.Duration
	OnConnPacket FuncOnConnPacket
	OnConnEnable FuncOnConnEnable
	OnConnAccept func(r *http.Request) bool
}

func NewWSServer(opts WSServerOptions) (*WSServer, error) {
	ret := &WSServer{
		opts: opts,
		die:  make(chan bool),
	}
	if ret.opts.Timeout < time.Duration(DefaultMinTimeoutSec)*time.Second {
		ret.opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	h := &http.ServeMux{}
	h.HandleFunc("/", ret.ServeHTTP)
	ln, err := net.Listen("tcp", ret.opts.ListenAddr)
	if err != nil {
		return nil, err
	}
	ret.listener = ln
	ret.addr = ln.Addr()
	ret.httpsvr = &http.Server{Addr: ret.addr.String(), Handler: h}
	if ret.opts.OnConnAccept == nil {
		ret.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	} else {
		ret.upgrader.CheckOrigin = ret.opts.OnConnAccept
	}
	return ret, nil
}

type WSServer struct {
	opts     WSServerOptions
	mu       sync.RWMutex
	die      chan bool
	httpsvr  *http.Server
	upgrader ws.Upgrader

	listener net.Listener
	addr     net.Addr
}

func (s *WSServer) Start() error {
	go func() {
		if err := s.httpsvr.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("ws serve: %v", err)
		}
	}()
	return nil
}

func (s *WSServer) Stop() error {
	select {
	case <-s.die:
		return nil
	default:
		close(s.die)
	}
	s.httpsvr.Close()
	return nil
}

func (s *WSServer) Address() net.Addr {
	return s.addr
}

func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	conn := newWSConn(GenConnID(), c, s.opts.Timeout)
	conn.status = Connected

	go func() {
		defer conn.Close()
		if err := conn.writeWork(); err != nil {
			log.Debugf("ws writeWork: %v", err)
		}
	}()

	go func() {
		defer conn.Close()
		if err := conn.readWork(); err != nil && err != io.EOF {
			log.Debugf("ws readWork: %v", err)
		}
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
