package server

import (
	"time"

	log "tarotserv/core/log"
	"tarotserv/core/network"
)

// Server owns one room and its listeners. TCP and WebSocket clients
// share the same framing and land in the same room.
type Server struct {
	conf *Config
	room *Room

	tcpSvr *network.TcpServer
	wsSvr  *network.WSServer
}

func NewServer(conf *Config) (*Server, error) {
	var archive *Archive
	if conf.ArchiveDir != "" {
		var err error
		archive, err = NewArchive(conf.ArchiveDir)
		if err != nil {
			return nil, err
		}
	}

	room := NewRoom(RoomOptions{
		Rounds:         conf.Rounds,
		BarrierTimeout: time.Duration(conf.BarrierSec) * time.Second,
		Archive:        archive,
	})

	svr := &Server{
		conf: conf,
		room: room,
	}

	var err error
	svr.tcpSvr, err = network.NewTcpServer(network.TcpServerOptions{
		ListenAddr:   conf.TcpListenAddr,
		OnConnPacket: room.OnConnPacket,
		OnConnEnable: room.OnConnEnable,
	})
	if err != nil {
		return nil, err
	}

	if conf.WsListenAddr != "" {
		svr.wsSvr, err = network.NewWSServer(network.WSServerOptions{
			ListenAddr:   conf.WsListenAddr,
			OnConnPacket: room.OnConnPacket,
			OnConnEnable: room.OnConnEnable,
		})
		if err != nil {
			return nil, err
		}
	}

	return svr, nil
}

func (s *Server) Start() error {
	s.room.Start()

	if err := s.tcpSvr.Start(); err != nil {
		return err
	}
	log.Infof("tcp listen on %s", s.conf.TcpListenAddr)

	if s.wsSvr != nil {
		if err := s.wsSvr.Start(); err != nil {
			return err
		}
		log.Infof("ws listen on %s", s.conf.WsListenAddr)
	}
	return nil
}

func (s *Server) Stop() error {
	if s.wsSvr != nil {
		s.wsSvr.Stop()
	}
	err := s.tcpSvr.Stop()
	s.room.Close()
	return err
}
