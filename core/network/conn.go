package network

import (
	"errors"

	"github.com/google/uuid"
)

var ErrDisconn = errors.New("socket disconnected")
var ErrInvalidPacket = errors.New("invalid packet")

var DefaultTimeoutSec = 30
var DefaultMinTimeoutSec = 10

type ConnStatus = int32

const (
	Disconnected ConnStatus = iota
	Connecting   ConnStatus = iota
	Connected    ConnStatus = iota
	Closed       ConnStatus = iota
)

type Conn interface {
	ConnID() string
	Send(*Packet) error
	Close() error
	Enable() bool
	RemoteAddr() string
}

type FuncOnConnPacket func(Conn, *Packet)
type FuncOnConnEnable func(Conn, bool)

func GenConnID() string {
	return uuid.NewString()
}
