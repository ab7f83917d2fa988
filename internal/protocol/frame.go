package protocol

import (
	"encoding/binary"
	"fmt"
)

// Flag bits on the frame header (spec.md §4.3).
const (
	FlagTCPControl   uint8 = 0x01
	FlagUDPUnreliable uint8 = 0x02
	FlagUDPReliable   uint8 = 0x08
)

// Frame is one decoded wire packet: the 6-byte base header optionally
// extended with an 8-byte reliability header, plus payload.
type Frame struct {
	Type    Opcode
	Flags   uint8
	Seq     uint16
	Ack     uint16
	AckBits uint32
	Payload []byte
}

// HasReliabilityHeader reports whether Flags carries a seq/ack/ackBits
// header (set on every UDP flag, reliable or not).
func (f Frame) HasReliabilityHeader() bool {
	return f.Flags&(FlagUDPUnreliable|FlagUDPReliable) != 0
}

// EncodeFrame writes the base header, the reliability header when present,
// and the payload, per spec.md §4.3's 6-or-14-byte layout.
func EncodeFrame(f Frame) []byte {
	headerLen := 6
	if f.HasReliabilityHeader() {
		headerLen = 14
	}
	buf := make([]byte, headerLen+len(f.Payload))
	buf[0] = byte(f.Type)
	buf[1] = f.Flags
	binary.BigEndian.PutUint32(buf[2:6], uint32(len(f.Payload)))
	if f.HasReliabilityHeader() {
		binary.BigEndian.PutUint16(buf[6:8], f.Seq)
		binary.BigEndian.PutUint16(buf[8:10], f.Ack)
		binary.BigEndian.PutUint32(buf[10:14], f.AckBits)
	}
	copy(buf[headerLen:], f.Payload)
	return buf
}

// DecodeFrame parses a raw packet into a Frame. Returns an error if the
// buffer is shorter than its declared header plus payloadLen.
func DecodeFrame(raw []byte) (Frame, error) {
	if len(raw) < 6 {
		return Frame{}, fmt.Errorf("protocol: frame shorter than base header (%d bytes)", len(raw))
	}
	f := Frame{
		Type:  Opcode(raw[0]),
		Flags: raw[1],
	}
	payloadLen := binary.BigEndian.Uint32(raw[2:6])
	headerLen := 6
	if f.HasReliabilityHeader() {
		if len(raw) < 14 {
			return Frame{}, fmt.Errorf("protocol: reliability-flagged frame shorter than 14-byte header")
		}
		f.Seq = binary.BigEndian.Uint16(raw[6:8])
		f.Ack = binary.BigEndian.Uint16(raw[8:10])
		f.AckBits = binary.BigEndian.Uint32(raw[10:14])
		headerLen = 14
	}
	if len(raw) < headerLen+int(payloadLen) {
		return Frame{}, fmt.Errorf("protocol: payload truncated: declared %d, have %d", payloadLen, len(raw)-headerLen)
	}
	f.Payload = raw[headerLen : headerLen+int(payloadLen)]
	return f, nil
}
