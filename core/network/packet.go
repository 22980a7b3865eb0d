package network

import (
	"io"
)

// Wire layout: a 4 byte head followed by the body.
// head[0] = message kind, head[1] = protocol version,
// head[2:4] = body length, little endian.
const packetHeadLen = 4

const ProtocolVersion uint8 = 1

type packetHead []byte

type Packet struct {
	head packetHead
	body []byte
}

func newHead() packetHead {
	return make([]byte, packetHeadLen)
}

func NewPacket() *Packet {
	return &Packet{
		head: newHead(),
	}
}

func (h packetHead) getKind() uint8 {
	return h[0]
}

func (h packetHead) setKind(k uint8) {
	h[0] = k
}

func (h packetHead) getVersion() uint8 {
	return h[1]
}

func (h packetHead) setVersion(v uint8) {
	h[1] = v
}

func (h packetHead) getBodyLen() uint16 {
	return uint16(h[2]) | uint16(h[3])<<8
}

func (h packetHead) setBodyLen(l uint16) {
	h[2] = byte(l)
	h[3] = byte(l >> 8)
}

func (h packetHead) reset() {
	for i := 0; i < len(h); i++ {
		h[i] = 0
	}
}

func (p *Packet) ReadFrom(reader io.Reader) (int64, error) {
	var err error
	if _, err = io.ReadFull(reader, p.head); err != nil {
		return 0, err
	}

	bodylen := p.head.getBodyLen()

	if bodylen > 0 {
		p.body = make([]byte, bodylen)
		_, err = io.ReadFull(reader, p.body)
		if err != nil {
			return 0, err
		}
	}
	return int64(packetHeadLen + int(bodylen)), nil
}

func (p *Packet) WriteTo(writer io.Writer) (int64, error) {
	_, err := writer.Write(p.head)
	if err != nil {
		return 0, err
	}

	if len(p.body) > 0 {
		_, err = writer.Write(p.body)
		if err != nil {
			return 0, err
		}
	}

	return int64(packetHeadLen + len(p.body)), nil
}

func (p *Packet) SetKind(k uint8) {
	p.head.setKind(k)
}

func (p *Packet) Kind() uint8 {
	return p.head.getKind()
}

func (p *Packet) SetVersion(v uint8) {
	p.head.setVersion(v)
}

func (p *Packet) Version() uint8 {
	return p.head.getVersion()
}

func (p *Packet) SetBody(b []byte) {
	p.body = b
	p.head.setBodyLen(uint16(len(b)))
}

func (p *Packet) Body() []byte {
	return p.body
}

func (p *Packet) Reset() {
	p.head.reset()
	p.body = nil
}
