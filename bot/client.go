package bot

import (
	"time"

	log "tarotserv/core/log"
	"tarotserv/core/network"
	"tarotserv/protocol"
)

// Client runs one bot brain over a TCP connection. Packets arrive on
// the connection's read loop, so the brain needs no locking.
type Client struct {
	brain *Bot
	tcp   *network.TcpClient
	done  chan struct{}
}

func NewClient(name, addr string) *Client {
	c := &Client{
		brain: New(name),
		done:  make(chan struct{}),
	}
	c.tcp = network.NewTcpClient(network.TcpClientOptions{
		RemoteAddress: addr,
		Timeout:       5 * time.Minute,
		OnConnPacket:  c.onPacket,
		OnConnEnable: func(conn network.Conn, enable bool) {
			if !enable {
				c.finish()
			}
		},
	})
	return c
}

func (c *Client) Start() error {
	return c.tcp.Start()
}

func (c *Client) Stop() {
	c.tcp.Stop()
	c.finish()
}

// Done closes once the tournament result arrived or the connection
// dropped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) finish() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Client) onPacket(conn network.Conn, pk *network.Packet) {
	msg, err := protocol.Decode(pk)
	if err != nil {
		log.Warnf("bot %s: %v", c.brain.Name, err)
		return
	}

	replies, err := c.brain.OnMessage(msg)
	if err != nil {
		log.Errorf("bot %s: %v", c.brain.Name, err)
		return
	}
	for _, reply := range replies {
		if err := conn.Send(protocol.Encode(reply)); err != nil {
			log.Warnf("bot %s: send: %v", c.brain.Name, err)
		}
	}

	if m, ok := msg.(*protocol.DealResult); ok && m.Final != 0 {
		log.Infof("bot %s: tournament over, totals %v", c.brain.Name, m.Totals)
		c.finish()
	}
}
