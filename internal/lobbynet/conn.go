// Package lobbynet implements the TCP control channel: LOGIN/LOBBY/CHAT/
// GAME_START framing (flag 0x01, no reliability header, spec.md §4.3) over
// a persistent connection per client.
package lobbynet

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/shmup/server/internal/protocol"
	"go.uber.org/zap"
)

// Conn is one client's control-channel connection. I/O runs in dedicated
// goroutines; only the session director touches decoded messages.
type Conn struct {
	ID   uint64
	conn net.Conn

	In  chan Inbound // session director reads decoded messages from here
	Out chan any      // writer goroutine drains encoded messages from here

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

// Inbound pairs a decoded control-channel message with the connection it
// arrived on.
type Inbound struct {
	ConnID uint64
	Opcode protocol.Opcode
	Message any
}

func newConn(c net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Conn {
	return &Conn{
		ID:      id,
		conn:    c,
		In:      make(chan Inbound, inSize),
		Out:     make(chan any, outSize),
		closeCh: make(chan struct{}),
		log:     log.With(zap.Uint64("conn", id)),
	}
}

// Start launches the reader and writer goroutines.
func (c *Conn) Start(deliver func(Inbound)) {
	go c.readLoop(deliver)
	go c.writeLoop()
}

func (c *Conn) readLoop(deliver func(Inbound)) {
	defer close(c.In)
	header := make([]byte, 6)
	for {
		if _, err := io.ReadFull(c.conn, header); err != nil {
			c.Close()
			return
		}
		opcode := protocol.Opcode(header[0])
		payloadLen := binary.BigEndian.Uint32(header[2:6])
		payload := make([]byte, payloadLen)
		if payloadLen > 0 {
			if _, err := io.ReadFull(c.conn, payload); err != nil {
				c.Close()
				return
			}
		}
		msg, err := protocol.Decode(opcode, payload)
		if err != nil {
			c.log.Debug("dropped undecodable control message", zap.Error(err))
			continue
		}
		select {
		case c.In <- Inbound{ConnID: c.ID, Opcode: opcode, Message: msg}:
		default:
			c.log.Warn("inbound queue full, dropping control message")
		}
		if deliver != nil {
			deliver(Inbound{ConnID: c.ID, Opcode: opcode, Message: msg})
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case msg, ok := <-c.Out:
			if !ok {
				return
			}
			if err := c.writeOne(msg); err != nil {
				c.Close()
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

func (c *Conn) writeOne(msg any) error {
	op, payload := protocol.Encode(msg)
	raw := protocol.EncodeFrame(protocol.Frame{
		Type: op, Flags: protocol.FlagTCPControl, Payload: payload,
	})
	_, err := c.conn.Write(raw)
	return err
}

// Send queues msg for delivery; it is dropped (with a log) if Out is full.
func (c *Conn) Send(msg any) {
	if c.closed.Load() {
		return
	}
	select {
	case c.Out <- msg:
	default:
		c.log.Warn(fmt.Sprintf("outbound queue full, dropping %T", msg))
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
		c.conn.Close()
	})
}

func (c *Conn) RemoteAddr() string { return c.conn.RemoteAddr().String() }
