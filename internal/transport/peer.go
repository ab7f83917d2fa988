// Package transport implements the reliable-enough UDP layer of spec.md
// §4.4: per-peer sequence tracking, selective-ack, retransmission, and
// duplicate suppression, layered under the framing in internal/protocol.
package transport

import (
	"time"
)

const (
	retransmitInterval = 100 * time.Millisecond
	maxRetries         = 15
	ackWindow          = 32
)

// unackedPacket is a reliable send awaiting acknowledgment.
type unackedPacket struct {
	bytes      []byte
	lastSentAt time.Time
	retries    int
}

// Peer tracks one remote endpoint's sequence/ack state (spec.md §4.4).
// Not safe for concurrent use; callers serialize access per-peer (the
// server's single game-tick thread, per spec.md §5).
type Peer struct {
	localSeq  uint16
	remoteSeq uint16
	haveSeen  bool
	ackBits   uint32

	unacked map[uint16]*unackedPacket

	TimedOut bool
}

func NewPeer() *Peer {
	return &Peer{unacked: make(map[uint16]*unackedPacket)}
}

// NextSeq assigns and returns the next reliable-channel sequence number.
func (p *Peer) NextSeq() uint16 {
	seq := p.localSeq
	p.localSeq++
	return seq
}

// TrackReliable records a just-sent reliable packet so the retransmission
// sweep can resend it until acked or dropped.
func (p *Peer) TrackReliable(seq uint16, raw []byte, now time.Time) {
	p.unacked[seq] = &unackedPacket{bytes: raw, lastSentAt: now}
}

// AckSnapshot returns the (ack, ackBits) header values to stamp on the next
// outgoing packet to this peer, reflecting what's been received from it.
func (p *Peer) AckSnapshot() (ack uint16, ackBits uint32) {
	return p.remoteSeq, p.ackBits
}

// Receive applies spec.md §4.4's duplicate test and ack-bitmask shift, then
// releases any packets acknowledged by ack/ackBits. Returns false if seq is
// a duplicate and should be dropped without delivering its payload.
func (p *Peer) Receive(seq, ack uint16, ackBits uint32) bool {
	accepted := p.acceptSeq(seq)
	p.release(ack, ackBits)
	return accepted
}

func (p *Peer) acceptSeq(seq uint16) bool {
	if !p.haveSeen {
		p.haveSeen = true
		p.remoteSeq = seq
		return true
	}
	dist := seqDistance(seq, p.remoteSeq)
	switch {
	case dist == 0:
		return false // exact duplicate of the latest seq
	case dist > 0:
		// seq is newer: shift the window forward by dist, marking the old
		// remoteSeq (now dist-1 back) as seen.
		shift := dist
		if shift >= ackWindow {
			p.ackBits = 0
		} else {
			p.ackBits = (p.ackBits << uint(shift)) | (1 << uint(shift-1))
		}
		p.remoteSeq = seq
		return true
	default:
		// seq is older: within the 32-seq trailing window?
		back := -dist
		if back > ackWindow {
			return false // too old to track, treat as duplicate/drop
		}
		bit := uint32(1) << uint(back-1)
		if p.ackBits&bit != 0 {
			return false // already seen
		}
		p.ackBits |= bit
		return true
	}
}

// release drops every unacked packet confirmed by ack or by a set bit in
// ackBits (spec.md §4.4 step 3).
func (p *Peer) release(ack uint16, ackBits uint32) {
	delete(p.unacked, ack)
	for i := 0; i < ackWindow; i++ {
		if ackBits&(1<<uint(i)) == 0 {
			continue
		}
		delete(p.unacked, ack-uint16(i+1))
	}
}

// Sweep re-sends any reliable packet whose retransmitInterval has elapsed,
// calling send for each. Packets exceeding maxRetries are dropped and the
// peer is marked TimedOut.
func (p *Peer) Sweep(now time.Time, send func(raw []byte)) {
	for seq, pkt := range p.unacked {
		if now.Sub(pkt.lastSentAt) < retransmitInterval {
			continue
		}
		pkt.retries++
		if pkt.retries > maxRetries {
			delete(p.unacked, seq)
			p.TimedOut = true
			continue
		}
		pkt.lastSentAt = now
		send(pkt.bytes)
	}
}

// seqDistance returns the signed circular distance from b to a over a
// 16-bit wrapping sequence space: positive when a is ahead of b.
func seqDistance(a, b uint16) int {
	d := int(a) - int(b)
	switch {
	case d > 0x7FFF:
		return d - 0x10000
	case d < -0x7FFF:
		return d + 0x10000
	default:
		return d
	}
}
