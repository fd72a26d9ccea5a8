// Package mining implements the closed set of mining protocol messages
// carried over network frames. Every message encodes through package codec
// and round-trips exactly: decoding the encoding of any constructible
// message yields an equal value and consumes the whole payload.
package mining

import (
	"fmt"

	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

// Message is one mining protocol message. The set is closed; decoding is
// done through Unmarshal keyed on the frame's message type.
type Message interface {
	MessageType() frame.MessageType
	encode(w *codec.Writer) error
}

// Marshal encodes m into a frame payload.
func Marshal(m Message) ([]byte, error) {
	var w codec.Writer
	if err := m.encode(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes the payload of a frame with message type t. Unknown
// message types, including catalog entries this implementation does not
// speak (the SetCustomMiningJob family), are ErrUnsupportedMessage. A
// payload that fails field decoding or leaves trailing bytes is
// ErrMalformedMessage.
func Unmarshal(t frame.MessageType, payload []byte) (Message, error) {
	dec, ok := decoders[t]
	if !ok {
		return nil, fmt.Errorf("%w: msg_type 0x%02x", ErrUnsupportedMessage, uint8(t))
	}
	c := codec.NewCursor(payload)
	m, err := dec(c)
	if err != nil {
		return nil, malformed(t, err)
	}
	if n := c.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: msg_type 0x%02x: %d trailing bytes", ErrMalformedMessage, uint8(t), n)
	}
	return m, nil
}

// EncodeFrame marshals m and wraps it in a network frame, appending the
// encoding to dst.
func EncodeFrame(m Message, dst []byte) ([]byte, error) {
	payload, err := Marshal(m)
	if err != nil {
		return nil, err
	}
	return frame.NewFrame(m.MessageType(), payload).Marshal(dst)
}

// DecodeFrame decodes the message carried by a base-protocol frame.
func DecodeFrame(f frame.Frame) (Message, error) {
	if f.ExtensionType != 0 {
		return nil, fmt.Errorf("%w: extension 0x%04x", ErrUnsupportedMessage, f.ExtensionType)
	}
	return Unmarshal(f.MessageType, f.Payload)
}

// decoders maps each implemented message type to its payload decoder.
// The SetCustomMiningJob family stays out so it resolves to
// ErrUnsupportedMessage.
var decoders = map[frame.MessageType]func(*codec.Cursor) (Message, error){
	frame.MsgSetupConnection:                    decodeSetupConnection,
	frame.MsgSetupConnectionSuccess:             decodeSetupConnectionSuccess,
	frame.MsgSetupConnectionError:               decodeSetupConnectionError,
	frame.MsgChannelEndpointChanged:             decodeChannelEndpointChanged,
	frame.MsgOpenStandardMiningChannel:          decodeOpenStandardMiningChannel,
	frame.MsgOpenStandardMiningChannelSuccess:   decodeOpenStandardMiningChannelSuccess,
	frame.MsgOpenStandardMiningChannelError:     decodeOpenStandardMiningChannelError,
	frame.MsgOpenExtendedMiningChannel:          decodeOpenExtendedMiningChannel,
	frame.MsgOpenExtendedMiningChannelSuccess:   decodeOpenExtendedMiningChannelSuccess,
	frame.MsgOpenExtendedMiningChannelError:     decodeOpenExtendedMiningChannelError,
	frame.MsgUpdateChannel:                      decodeUpdateChannel,
	frame.MsgUpdateChannelError:                 decodeUpdateChannelError,
	frame.MsgCloseChannel:                       decodeCloseChannel,
	frame.MsgSetExtranoncePrefix:                decodeSetExtranoncePrefix,
	frame.MsgSubmitSharesStandard:               decodeSubmitSharesStandard,
	frame.MsgSubmitSharesExtended:               decodeSubmitSharesExtended,
	frame.MsgSubmitSharesSuccess:                decodeSubmitSharesSuccess,
	frame.MsgSubmitSharesError:                  decodeSubmitSharesError,
	frame.MsgNewMiningJob:                       decodeNewMiningJob,
	frame.MsgNewExtendedMiningJob:               decodeNewExtendedMiningJob,
	frame.MsgSetNewPrevHash:                     decodeSetNewPrevHash,
	frame.MsgSetTarget:                          decodeSetTarget,
	frame.MsgReconnect:                          decodeReconnect,
	frame.MsgSetGroupChannel:                    decodeSetGroupChannel,
}
