package mining

import (
	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

// ChannelEndpointChanged tells a downstream that everything it knows about
// the channel (job ids, extranonce prefix) is void after a proxy redirect.
type ChannelEndpointChanged struct {
	ChannelID uint32
}

func (m *ChannelEndpointChanged) MessageType() frame.MessageType {
	return frame.MsgChannelEndpointChanged
}

func (m *ChannelEndpointChanged) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	return nil
}

func decodeChannelEndpointChanged(c *codec.Cursor) (Message, error) {
	id, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	return &ChannelEndpointChanged{ChannelID: id}, nil
}

// OpenStandardMiningChannel requests a channel for a device that does its
// own header-only mining against jobs pushed by the upstream.
type OpenStandardMiningChannel struct {
	RequestID       uint32
	UserIdentity    string
	NominalHashRate float32
	MaxTarget       codec.U256
}

func (m *OpenStandardMiningChannel) MessageType() frame.MessageType {
	return frame.MsgOpenStandardMiningChannel
}

func (m *OpenStandardMiningChannel) encode(w *codec.Writer) error {
	w.WriteU32(m.RequestID)
	if err := w.WriteStr255(m.UserIdentity); err != nil {
		return err
	}
	w.WriteF32(m.NominalHashRate)
	w.WriteU256(m.MaxTarget)
	return nil
}

func decodeOpenStandardMiningChannel(c *codec.Cursor) (Message, error) {
	var m OpenStandardMiningChannel
	var err error
	if m.RequestID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.UserIdentity, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.NominalHashRate, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.MaxTarget, err = c.ReadU256(); err != nil {
		return nil, err
	}
	return &m, nil
}

// OpenStandardMiningChannelSuccess assigns the channel id, initial target
// and extranonce prefix for an accepted standard channel.
type OpenStandardMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           codec.U256
	ExtranoncePrefix []byte
	GroupChannelID   uint32
}

func (m *OpenStandardMiningChannelSuccess) MessageType() frame.MessageType {
	return frame.MsgOpenStandardMiningChannelSuccess
}

func (m *OpenStandardMiningChannelSuccess) encode(w *codec.Writer) error {
	w.WriteU32(m.RequestID)
	w.WriteU32(m.ChannelID)
	w.WriteU256(m.Target)
	if err := w.WriteB32(m.ExtranoncePrefix); err != nil {
		return err
	}
	w.WriteU32(m.GroupChannelID)
	return nil
}

func decodeOpenStandardMiningChannelSuccess(c *codec.Cursor) (Message, error) {
	var m OpenStandardMiningChannelSuccess
	var err error
	if m.RequestID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.Target, err = c.ReadU256(); err != nil {
		return nil, err
	}
	if m.ExtranoncePrefix, err = c.ReadB32(); err != nil {
		return nil, err
	}
	if m.GroupChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	return &m, nil
}

// The id + error_code reply messages share one wire shape.
func encodeIDError(w *codec.Writer, id uint32, code string) error {
	w.WriteU32(id)
	return w.WriteStr255(code)
}

func decodeIDError(c *codec.Cursor) (uint32, string, error) {
	id, err := c.ReadU32()
	if err != nil {
		return 0, "", err
	}
	code, err := c.ReadStr255()
	if err != nil {
		return 0, "", err
	}
	return id, code, nil
}

// OpenStandardMiningChannelError rejects an OpenStandardMiningChannel
// request.
type OpenStandardMiningChannelError struct {
	RequestID uint32
	ErrorCode string
}

func (m *OpenStandardMiningChannelError) MessageType() frame.MessageType {
	return frame.MsgOpenStandardMiningChannelError
}

func (m *OpenStandardMiningChannelError) encode(w *codec.Writer) error {
	return encodeIDError(w, m.RequestID, m.ErrorCode)
}

func decodeOpenStandardMiningChannelError(c *codec.Cursor) (Message, error) {
	id, code, err := decodeIDError(c)
	if err != nil {
		return nil, err
	}
	return &OpenStandardMiningChannelError{RequestID: id, ErrorCode: code}, nil
}

// OpenExtendedMiningChannel requests a channel for a device or proxy that
// rolls its own extranonce space.
type OpenExtendedMiningChannel struct {
	RequestID         uint32
	UserIdentity      string
	NominalHashRate   float32
	MaxTarget         codec.U256
	MinExtranonceSize uint16
}

func (m *OpenExtendedMiningChannel) MessageType() frame.MessageType {
	return frame.MsgOpenExtendedMiningChannel
}

func (m *OpenExtendedMiningChannel) encode(w *codec.Writer) error {
	w.WriteU32(m.RequestID)
	if err := w.WriteStr255(m.UserIdentity); err != nil {
		return err
	}
	w.WriteF32(m.NominalHashRate)
	w.WriteU256(m.MaxTarget)
	w.WriteU16(m.MinExtranonceSize)
	return nil
}

func decodeOpenExtendedMiningChannel(c *codec.Cursor) (Message, error) {
	var m OpenExtendedMiningChannel
	var err error
	if m.RequestID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.UserIdentity, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.NominalHashRate, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.MaxTarget, err = c.ReadU256(); err != nil {
		return nil, err
	}
	if m.MinExtranonceSize, err = c.ReadU16(); err != nil {
		return nil, err
	}
	return &m, nil
}

// OpenExtendedMiningChannelSuccess assigns the channel id, target and
// extranonce layout for an accepted extended channel.
type OpenExtendedMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           codec.U256
	ExtranonceSize   uint16
	ExtranoncePrefix []byte
}

func (m *OpenExtendedMiningChannelSuccess) MessageType() frame.MessageType {
	return frame.MsgOpenExtendedMiningChannelSuccess
}

func (m *OpenExtendedMiningChannelSuccess) encode(w *codec.Writer) error {
	w.WriteU32(m.RequestID)
	w.WriteU32(m.ChannelID)
	w.WriteU256(m.Target)
	w.WriteU16(m.ExtranonceSize)
	return w.WriteB32(m.ExtranoncePrefix)
}

func decodeOpenExtendedMiningChannelSuccess(c *codec.Cursor) (Message, error) {
	var m OpenExtendedMiningChannelSuccess
	var err error
	if m.RequestID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.Target, err = c.ReadU256(); err != nil {
		return nil, err
	}
	if m.ExtranonceSize, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.ExtranoncePrefix, err = c.ReadB32(); err != nil {
		return nil, err
	}
	return &m, nil
}

// OpenExtendedMiningChannelError rejects an OpenExtendedMiningChannel
// request.
type OpenExtendedMiningChannelError struct {
	RequestID uint32
	ErrorCode string
}

func (m *OpenExtendedMiningChannelError) MessageType() frame.MessageType {
	return frame.MsgOpenExtendedMiningChannelError
}

func (m *OpenExtendedMiningChannelError) encode(w *codec.Writer) error {
	return encodeIDError(w, m.RequestID, m.ErrorCode)
}

func decodeOpenExtendedMiningChannelError(c *codec.Cursor) (Message, error) {
	id, code, err := decodeIDError(c)
	if err != nil {
		return nil, err
	}
	return &OpenExtendedMiningChannelError{RequestID: id, ErrorCode: code}, nil
}

// UpdateChannel notifies the upstream of a hash rate or target change on an
// open channel.
type UpdateChannel struct {
	ChannelID       uint32
	NominalHashRate float32
	MaxTarget       codec.U256
}

func (m *UpdateChannel) MessageType() frame.MessageType { return frame.MsgUpdateChannel }

func (m *UpdateChannel) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteF32(m.NominalHashRate)
	w.WriteU256(m.MaxTarget)
	return nil
}

func decodeUpdateChannel(c *codec.Cursor) (Message, error) {
	var m UpdateChannel
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.NominalHashRate, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.MaxTarget, err = c.ReadU256(); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateChannelError rejects an UpdateChannel.
type UpdateChannelError struct {
	ChannelID uint32
	ErrorCode string
}

func (m *UpdateChannelError) MessageType() frame.MessageType {
	return frame.MsgUpdateChannelError
}

func (m *UpdateChannelError) encode(w *codec.Writer) error {
	return encodeIDError(w, m.ChannelID, m.ErrorCode)
}

func decodeUpdateChannelError(c *codec.Cursor) (Message, error) {
	id, code, err := decodeIDError(c)
	if err != nil {
		return nil, err
	}
	return &UpdateChannelError{ChannelID: id, ErrorCode: code}, nil
}

// CloseChannel ends a channel in either direction.
type CloseChannel struct {
	ChannelID  uint32
	ReasonCode string
}

func (m *CloseChannel) MessageType() frame.MessageType { return frame.MsgCloseChannel }

func (m *CloseChannel) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	return w.WriteStr255(m.ReasonCode)
}

func decodeCloseChannel(c *codec.Cursor) (Message, error) {
	var m CloseChannel
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ReasonCode, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetExtranoncePrefix changes the extranonce prefix of an open channel.
// It applies to jobs announced after it.
type SetExtranoncePrefix struct {
	ChannelID        uint32
	ExtranoncePrefix []byte
}

func (m *SetExtranoncePrefix) MessageType() frame.MessageType {
	return frame.MsgSetExtranoncePrefix
}

func (m *SetExtranoncePrefix) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	return w.WriteB32(m.ExtranoncePrefix)
}

func decodeSetExtranoncePrefix(c *codec.Cursor) (Message, error) {
	var m SetExtranoncePrefix
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ExtranoncePrefix, err = c.ReadB32(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Reconnect asks the downstream to drop the connection and dial the given
// host instead. Empty host means reconnect to the same one.
type Reconnect struct {
	NewHost string
	NewPort uint16
}

func (m *Reconnect) MessageType() frame.MessageType { return frame.MsgReconnect }

func (m *Reconnect) encode(w *codec.Writer) error {
	if err := w.WriteStr255(m.NewHost); err != nil {
		return err
	}
	w.WriteU16(m.NewPort)
	return nil
}

func decodeReconnect(c *codec.Cursor) (Message, error) {
	var m Reconnect
	var err error
	if m.NewHost, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.NewPort, err = c.ReadU16(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetGroupChannel collects standard channels into a group so that extended
// jobs can address them all at once.
type SetGroupChannel struct {
	GroupChannelID uint32
	ChannelIDs     []uint32
}

func (m *SetGroupChannel) MessageType() frame.MessageType { return frame.MsgSetGroupChannel }

func (m *SetGroupChannel) encode(w *codec.Writer) error {
	w.WriteU32(m.GroupChannelID)
	return codec.WriteSeq64K(w, m.ChannelIDs, func(w *codec.Writer, id uint32) error {
		w.WriteU32(id)
		return nil
	})
}

func decodeSetGroupChannel(c *codec.Cursor) (Message, error) {
	var m SetGroupChannel
	var err error
	if m.GroupChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ChannelIDs, err = codec.ReadSeq64K(c, (*codec.Cursor).ReadU32); err != nil {
		return nil, err
	}
	return &m, nil
}
