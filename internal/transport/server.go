package transport

import (
	"net"
	"sync"
	"time"

	"github.com/shmup/server/internal/protocol"
	"go.uber.org/zap"
)

// Inbound is one decoded, deduplicated message delivered to the application
// in arrival order (spec.md §4.4's "ordering and delivery").
type Inbound struct {
	Addr    string
	Opcode  protocol.Opcode
	Message any
}

// Server owns one UDP socket shared by every peer of every match; the
// server binary's UDP loop reads from In(). Per-peer reliability state lives
// in Peer, looked up by the packet's source address.
type Server struct {
	conn net.PacketConn

	mu    sync.Mutex
	peers map[string]*Peer

	in      chan Inbound
	timeout chan string

	log *zap.Logger

	closeCh   chan struct{}
	closeOnce sync.Once
}

func NewServer(bindAddr string, log *zap.Logger) (*Server, error) {
	conn, err := net.ListenPacket("udp", bindAddr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		conn:    conn,
		peers:   make(map[string]*Peer),
		in:      make(chan Inbound, 1024),
		timeout: make(chan string, 64),
		log:     log,
		closeCh: make(chan struct{}),
	}
	return s, nil
}

// In returns the channel of decoded inbound messages.
func (s *Server) In() <-chan Inbound { return s.in }

// Timeouts returns the channel of peer addresses dropped after
// maxRetries unacked retransmissions (spec.md §4.4).
func (s *Server) Timeouts() <-chan string { return s.timeout }

// Addr returns the bound local address.
func (s *Server) Addr() net.Addr { return s.conn.LocalAddr() }

// ReadLoop runs in its own goroutine, parsing every inbound datagram into a
// Frame, applying per-peer dedup/ack bookkeeping, and forwarding accepted
// messages to In().
func (s *Server) ReadLoop() {
	buf := make([]byte, 2048)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Warn("udp read failed", zap.Error(err))
			continue
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])
		s.handleDatagram(addr.String(), raw)
	}
}

func (s *Server) handleDatagram(addr string, raw []byte) {
	frame, err := protocol.DecodeFrame(raw)
	if err != nil {
		s.log.Debug("dropped malformed frame", zap.String("addr", addr), zap.Error(err))
		return
	}

	peer := s.peerFor(addr)

	if frame.HasReliabilityHeader() {
		accepted := peer.Receive(frame.Seq, frame.Ack, frame.AckBits)
		if !accepted {
			return
		}
	}

	msg, err := protocol.Decode(frame.Type, frame.Payload)
	if err != nil {
		s.log.Debug("dropped undecodable payload", zap.String("addr", addr), zap.Error(err))
		return
	}

	select {
	case s.in <- Inbound{Addr: addr, Opcode: frame.Type, Message: msg}:
	default:
		s.log.Warn("inbound queue full, dropping message", zap.String("addr", addr))
	}
}

func (s *Server) peerFor(addr string) *Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.peers[addr]
	if !ok {
		p = NewPeer()
		s.peers[addr] = p
	}
	return p
}

// SendUnreliable encodes msg and sends it with the UDP-unreliable flag, used
// for GAME_STATE: stale snapshots are simply superseded, never retried
// (spec.md §4.4).
func (s *Server) SendUnreliable(addr string, msg any) error {
	return s.send(addr, msg, protocol.FlagUDPUnreliable, false)
}

// SendReliable encodes msg, stamps it with the next sequence number, and
// tracks it for retransmission until acked or dropped.
func (s *Server) SendReliable(addr string, msg any) error {
	return s.send(addr, msg, protocol.FlagUDPReliable, true)
}

func (s *Server) send(addr string, msg any, flag uint8, track bool) error {
	op, payload := protocol.Encode(msg)
	peer := s.peerFor(addr)
	ack, ackBits := peer.AckSnapshot()
	seq := peer.NextSeq()
	raw := protocol.EncodeFrame(protocol.Frame{
		Type: op, Flags: flag,
		Seq: seq, Ack: ack, AckBits: ackBits,
		Payload: payload,
	})
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	if _, err := s.conn.WriteTo(raw, udpAddr); err != nil {
		return err
	}
	if track {
		peer.TrackReliable(seq, raw, time.Now())
	}
	return nil
}

// SweepRetransmits re-sends any due reliable packet for every known peer and
// reports newly timed-out peers on Timeouts(). Call this on a fixed
// interval (spec.md §4.4: "every ≤ 100 ms").
func (s *Server) SweepRetransmits() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for addr, peer := range s.peers {
		udpAddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			continue
		}
		peer.Sweep(now, func(raw []byte) {
			s.conn.WriteTo(raw, udpAddr)
		})
		if peer.TimedOut {
			delete(s.peers, addr)
			select {
			case s.timeout <- addr:
			default:
			}
		}
	}
}

// Close shuts down the socket, unblocking ReadLoop.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
	})
	return err
}
