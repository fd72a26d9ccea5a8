package mining

import (
	"errors"
	"fmt"

	"github.com/lodepool/sv2core/frame"
)

var (
	// ErrUnsupportedMessage marks a frame whose message type this peer
	// does not implement. Connections survive it; the sender can be told.
	ErrUnsupportedMessage = errors.New("mining: unsupported message type")

	// ErrMalformedMessage marks a payload that does not decode as its
	// declared message type, including trailing bytes after the message.
	ErrMalformedMessage = errors.New("mining: malformed message")

	// ErrUnknownFlags marks a flags field with bits outside the defined set.
	ErrUnknownFlags = errors.New("mining: unknown flag bits")

	ErrMissingVendor    = errors.New("mining: vendor must be set")
	ErrMissingFirmware  = errors.New("mining: firmware must be set")
	ErrVersionTooOld    = errors.New("mining: protocol versions below 2 are not supported")
	ErrUnknownProtocol  = errors.New("mining: unknown protocol")
	ErrUnknownErrorCode = errors.New("mining: error code outside the catalog")
	ErrNoFlagsToReject  = errors.New("mining: unsupported-feature-flags requires the rejected flags")
)

func malformed(t frame.MessageType, err error) error {
	return fmt.Errorf("%w: msg_type 0x%02x: %w", ErrMalformedMessage, uint8(t), err)
}
