package mining

import (
	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

// SubmitSharesStandard reports a solution for a standard channel. Sequence
// numbers let success and error replies batch acknowledgements.
type SubmitSharesStandard struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
}

func (m *SubmitSharesStandard) MessageType() frame.MessageType {
	return frame.MsgSubmitSharesStandard
}

func (m *SubmitSharesStandard) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.SequenceNumber)
	w.WriteU32(m.JobID)
	w.WriteU32(m.Nonce)
	w.WriteU32(m.NTime)
	w.WriteU32(m.Version)
	return nil
}

func decodeSubmitSharesStandard(c *codec.Cursor) (Message, error) {
	var m SubmitSharesStandard
	for _, dst := range []*uint32{
		&m.ChannelID, &m.SequenceNumber, &m.JobID, &m.Nonce, &m.NTime, &m.Version,
	} {
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return &m, nil
}

// SubmitSharesExtended reports a solution for an extended channel, carrying
// the extranonce the downstream rolled.
type SubmitSharesExtended struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
	Extranonce     []byte
}

func (m *SubmitSharesExtended) MessageType() frame.MessageType {
	return frame.MsgSubmitSharesExtended
}

func (m *SubmitSharesExtended) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.SequenceNumber)
	w.WriteU32(m.JobID)
	w.WriteU32(m.Nonce)
	w.WriteU32(m.NTime)
	w.WriteU32(m.Version)
	return w.WriteB32(m.Extranonce)
}

func decodeSubmitSharesExtended(c *codec.Cursor) (Message, error) {
	var m SubmitSharesExtended
	for _, dst := range []*uint32{
		&m.ChannelID, &m.SequenceNumber, &m.JobID, &m.Nonce, &m.NTime, &m.Version,
	} {
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	var err error
	if m.Extranonce, err = c.ReadB32(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SubmitSharesSuccess acknowledges every share up to LastSequenceNumber.
type SubmitSharesSuccess struct {
	ChannelID               uint32
	LastSequenceNumber      uint32
	NewSubmitsAcceptedCount uint32
	NewSharesSum            uint64
}

func (m *SubmitSharesSuccess) MessageType() frame.MessageType {
	return frame.MsgSubmitSharesSuccess
}

func (m *SubmitSharesSuccess) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.LastSequenceNumber)
	w.WriteU32(m.NewSubmitsAcceptedCount)
	w.WriteU64(m.NewSharesSum)
	return nil
}

func decodeSubmitSharesSuccess(c *codec.Cursor) (Message, error) {
	var m SubmitSharesSuccess
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.LastSequenceNumber, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.NewSubmitsAcceptedCount, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.NewSharesSum, err = c.ReadU64(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SubmitSharesError rejects a single share by its sequence number.
type SubmitSharesError struct {
	ChannelID      uint32
	SequenceNumber uint32
	ErrorCode      string
}

func (m *SubmitSharesError) MessageType() frame.MessageType {
	return frame.MsgSubmitSharesError
}

func (m *SubmitSharesError) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.SequenceNumber)
	return w.WriteStr255(m.ErrorCode)
}

func decodeSubmitSharesError(c *codec.Cursor) (Message, error) {
	var m SubmitSharesError
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.SequenceNumber, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.ErrorCode, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	return &m, nil
}
