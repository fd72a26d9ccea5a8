package frame

// MessageType is the msg_type byte of a network frame. The catalog below
// covers extension type 0x0000 (the base protocol); the channel bit column
// records whether frames of that type carry a channel id and must set the
// extension field's MSB on the wire.
type MessageType uint8

const (
	// Common messages.
	MsgSetupConnection        MessageType = 0x00
	MsgSetupConnectionSuccess MessageType = 0x01
	MsgSetupConnectionError   MessageType = 0x02
	MsgChannelEndpointChanged MessageType = 0x03

	// Mining protocol messages.
	MsgOpenStandardMiningChannel        MessageType = 0x10
	MsgOpenStandardMiningChannelSuccess MessageType = 0x11
	MsgOpenStandardMiningChannelError   MessageType = 0x12
	MsgOpenExtendedMiningChannel        MessageType = 0x13
	MsgOpenExtendedMiningChannelSuccess MessageType = 0x14
	MsgOpenExtendedMiningChannelError   MessageType = 0x15
	MsgUpdateChannel                    MessageType = 0x16
	MsgUpdateChannelError               MessageType = 0x17
	MsgCloseChannel                     MessageType = 0x18
	MsgSetExtranoncePrefix              MessageType = 0x19
	MsgSubmitSharesStandard             MessageType = 0x1a
	MsgSubmitSharesExtended             MessageType = 0x1b
	MsgSubmitSharesSuccess              MessageType = 0x1c
	MsgSubmitSharesError                MessageType = 0x1d
	MsgNewMiningJob                     MessageType = 0x1e
	MsgNewExtendedMiningJob             MessageType = 0x1f
	MsgSetNewPrevHash                   MessageType = 0x20
	MsgSetTarget                        MessageType = 0x21
	MsgSetCustomMiningJob               MessageType = 0x22
	MsgSetCustomMiningJobSuccess        MessageType = 0x23
	MsgSetCustomMiningJobError          MessageType = 0x24
	MsgReconnect                        MessageType = 0x25
	MsgSetGroupChannel                  MessageType = 0x26
)

// channelMsgTypes records which catalog entries carry a channel id.
var channelMsgTypes = map[MessageType]bool{
	MsgSetupConnection:                  false,
	MsgSetupConnectionSuccess:           false,
	MsgSetupConnectionError:             false,
	MsgChannelEndpointChanged:           true,
	MsgOpenStandardMiningChannel:        false,
	MsgOpenStandardMiningChannelSuccess: false,
	MsgOpenStandardMiningChannelError:   false,
	MsgOpenExtendedMiningChannel:        false,
	MsgOpenExtendedMiningChannelSuccess: false,
	MsgOpenExtendedMiningChannelError:   false,
	MsgUpdateChannel:                    true,
	MsgUpdateChannelError:               true,
	MsgCloseChannel:                     true,
	MsgSetExtranoncePrefix:              true,
	MsgSubmitSharesStandard:             true,
	MsgSubmitSharesExtended:             true,
	MsgSubmitSharesSuccess:              true,
	MsgSubmitSharesError:                true,
	MsgNewMiningJob:                     true,
	MsgNewExtendedMiningJob:             true,
	MsgSetNewPrevHash:                   true,
	MsgSetTarget:                        true,
	MsgSetCustomMiningJob:               false,
	MsgSetCustomMiningJobSuccess:        false,
	MsgSetCustomMiningJobError:          false,
	MsgReconnect:                        false,
	MsgSetGroupChannel:                  false,
}

// Known reports whether t is in the base-protocol catalog.
func (t MessageType) Known() bool {
	_, ok := channelMsgTypes[t]
	return ok
}

// ChannelBit reports whether frames of this type carry a channel id.
// It is false for types outside the catalog.
func (t MessageType) ChannelBit() bool {
	return channelMsgTypes[t]
}
