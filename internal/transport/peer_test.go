package transport

import (
	"testing"
	"time"
)

func TestPeerFirstReceiveAlwaysAccepted(t *testing.T) {
	p := NewPeer()
	if !p.Receive(5, 0, 0) {
		t.Fatalf("first Receive should always be accepted")
	}
	ack, bits := p.AckSnapshot()
	if ack != 5 || bits != 0 {
		t.Fatalf("AckSnapshot = (%d, %b), want (5, 0)", ack, bits)
	}
}

func TestPeerRejectsExactDuplicate(t *testing.T) {
	p := NewPeer()
	p.Receive(5, 0, 0)
	if p.Receive(5, 0, 0) {
		t.Fatalf("re-receiving the same seq should be rejected as a duplicate")
	}
}

func TestPeerAcceptsNewerSeqAndShiftsWindow(t *testing.T) {
	p := NewPeer()
	p.Receive(5, 0, 0)
	if !p.Receive(6, 0, 0) {
		t.Fatalf("seq one ahead of the latest should be accepted")
	}
	_, bits := p.AckSnapshot()
	if bits&1 == 0 {
		t.Fatalf("ackBits should mark the previous seq (5) as seen, got %b", bits)
	}
}

func TestPeerAcceptsOutOfOrderWithinWindowOnce(t *testing.T) {
	p := NewPeer()
	p.Receive(10, 0, 0)
	if !p.Receive(8, 0, 0) {
		t.Fatalf("an older-but-in-window seq should be accepted the first time")
	}
	if p.Receive(8, 0, 0) {
		t.Fatalf("re-receiving that same older seq should now be rejected")
	}
}

func TestPeerRejectsSeqOlderThanWindow(t *testing.T) {
	p := NewPeer()
	p.Receive(100, 0, 0)
	if p.Receive(0, 0, 0) {
		t.Fatalf("a seq more than the ack window behind should be rejected")
	}
}

func TestPeerReleaseDropsAckedAndBitmaskedPackets(t *testing.T) {
	p := NewPeer()
	p.TrackReliable(1, []byte("one"), time.Now())
	p.TrackReliable(2, []byte("two"), time.Now())
	p.TrackReliable(3, []byte("three"), time.Now())

	// ack=3 plus bit0 set means seq 2 is also confirmed; seq 1 stays unacked.
	p.Receive(0, 3, 1)

	if _, ok := p.unacked[3]; ok {
		t.Fatalf("seq 3 should have been released by direct ack")
	}
	if _, ok := p.unacked[2]; ok {
		t.Fatalf("seq 2 should have been released by ackBits bit 0")
	}
	if _, ok := p.unacked[1]; !ok {
		t.Fatalf("seq 1 should remain unacked")
	}
}

func TestPeerSweepRetransmitsAfterInterval(t *testing.T) {
	p := NewPeer()
	sentAt := time.Now().Add(-retransmitInterval - time.Millisecond)
	p.unacked[7] = &unackedPacket{bytes: []byte("payload"), lastSentAt: sentAt}

	var resent [][]byte
	p.Sweep(time.Now(), func(raw []byte) { resent = append(resent, raw) })

	if len(resent) != 1 || string(resent[0]) != "payload" {
		t.Fatalf("expected seq 7 to be retransmitted, got %v", resent)
	}
	if p.unacked[7].retries != 1 {
		t.Fatalf("retries = %d, want 1", p.unacked[7].retries)
	}
}

func TestPeerSweepDoesNotRetransmitBeforeInterval(t *testing.T) {
	p := NewPeer()
	p.unacked[7] = &unackedPacket{bytes: []byte("payload"), lastSentAt: time.Now()}

	var resent int
	p.Sweep(time.Now(), func(raw []byte) { resent++ })

	if resent != 0 {
		t.Fatalf("expected no retransmit before retransmitInterval elapses, got %d", resent)
	}
}

func TestPeerSweepDropsAndTimesOutAfterMaxRetries(t *testing.T) {
	p := NewPeer()
	old := time.Now().Add(-retransmitInterval - time.Millisecond)
	p.unacked[1] = &unackedPacket{bytes: []byte("x"), lastSentAt: old, retries: maxRetries}

	p.Sweep(time.Now(), func([]byte) {})

	if _, ok := p.unacked[1]; ok {
		t.Fatalf("packet exceeding maxRetries should be dropped from unacked")
	}
	if !p.TimedOut {
		t.Fatalf("peer should be marked TimedOut after a packet exceeds maxRetries")
	}
}

func TestSeqDistanceWrapsAround(t *testing.T) {
	if d := seqDistance(1, 0xFFFF); d != 2 {
		t.Fatalf("seqDistance(1, 0xFFFF) = %d, want 2 (wraps forward)", d)
	}
	if d := seqDistance(0xFFFF, 1); d != -2 {
		t.Fatalf("seqDistance(0xFFFF, 1) = %d, want -2", d)
	}
}
