// Package frame implements the network frame layer. A frame is a six byte
// header followed by the message payload:
//
//	extension_type  u16 little-endian, MSB is the channel_msg flag
//	msg_type        u8
//	msg_length      u24 little-endian
//
// Decode is incremental: callers feed it whatever bytes they have buffered
// and retry on ErrIncomplete once more data arrives.
package frame

import (
	"errors"
	"fmt"

	"github.com/lodepool/sv2core/codec"
)

const (
	// HeaderLen is the fixed size of the frame header.
	HeaderLen = 6

	// MaxPayloadLen is the largest payload a u24 length field can describe.
	MaxPayloadLen = codec.MaxU24

	// ChannelBitMask selects the channel_msg flag inside extension_type.
	ChannelBitMask uint16 = 0x8000

	// ExtensionTypeMask selects the extension number inside extension_type.
	ExtensionTypeMask uint16 = 0x7fff
)

var (
	ErrIncomplete           = errors.New("frame: incomplete frame")
	ErrPayloadTooLarge      = errors.New("frame: payload exceeds u24 length field")
	ErrExtensionTooLarge    = errors.New("frame: extension type exceeds 15 bits")
	ErrUnexpectedChannelBit = errors.New("frame: channel bit does not match message type")
)

// Frame is a decoded network frame. Payload aliases the input buffer passed
// to Decode; callers that keep a Frame across reads must copy it.
type Frame struct {
	ExtensionType uint16
	ChannelMsg    bool
	MessageType   MessageType
	Payload       []byte
}

// NewFrame builds a base-protocol frame for a catalog message type, setting
// the channel bit from the catalog.
func NewFrame(t MessageType, payload []byte) Frame {
	return Frame{
		ChannelMsg:  t.ChannelBit(),
		MessageType: t,
		Payload:     payload,
	}
}

// Marshal appends the encoded frame to dst and returns the extended slice.
func (f Frame) Marshal(dst []byte) ([]byte, error) {
	if f.ExtensionType&ChannelBitMask != 0 {
		return nil, ErrExtensionTooLarge
	}
	if len(f.Payload) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(f.Payload))
	}
	ext := f.ExtensionType
	if f.ChannelMsg {
		ext |= ChannelBitMask
	}
	n := len(f.Payload)
	dst = append(dst,
		byte(ext), byte(ext>>8),
		byte(f.MessageType),
		byte(n), byte(n>>8), byte(n>>16),
	)
	return append(dst, f.Payload...), nil
}

// Decode reads one frame from the front of buf. It returns the frame and the
// number of bytes consumed. When buf does not yet hold a complete frame it
// returns ErrIncomplete and consumes nothing.
//
// For base-protocol frames with a catalog message type the channel bit is
// checked against the catalog; unknown message types and nonzero extensions
// are passed through untouched so callers can reject them above this layer.
func Decode(buf []byte) (Frame, int, error) {
	if len(buf) < HeaderLen {
		return Frame{}, 0, ErrIncomplete
	}
	rawExt := uint16(buf[0]) | uint16(buf[1])<<8
	msgType := MessageType(buf[2])
	payloadLen := int(buf[3]) | int(buf[4])<<8 | int(buf[5])<<16

	total := HeaderLen + payloadLen
	if len(buf) < total {
		return Frame{}, 0, ErrIncomplete
	}

	f := Frame{
		ExtensionType: rawExt & ExtensionTypeMask,
		ChannelMsg:    rawExt&ChannelBitMask != 0,
		MessageType:   msgType,
		Payload:       buf[HeaderLen:total],
	}
	if f.ExtensionType == 0 && msgType.Known() && f.ChannelMsg != msgType.ChannelBit() {
		return Frame{}, 0, fmt.Errorf("%w: msg_type 0x%02x", ErrUnexpectedChannelBit, uint8(msgType))
	}
	return f, total, nil
}
