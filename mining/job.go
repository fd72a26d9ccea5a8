package mining

import (
	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

// NewMiningJob pushes work to a standard channel. A future job carries no
// timing yet; it activates when a SetNewPrevHash referencing it arrives.
type NewMiningJob struct {
	ChannelID  uint32
	JobID      uint32
	FutureJob  bool
	Version    uint32
	MerkleRoot codec.U256
}

func (m *NewMiningJob) MessageType() frame.MessageType { return frame.MsgNewMiningJob }

func (m *NewMiningJob) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.JobID)
	w.WriteBool(m.FutureJob)
	w.WriteU32(m.Version)
	w.WriteU256(m.MerkleRoot)
	return nil
}

func decodeNewMiningJob(c *codec.Cursor) (Message, error) {
	var m NewMiningJob
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.JobID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.FutureJob, err = c.ReadBool(); err != nil {
		return nil, err
	}
	if m.Version, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.MerkleRoot, err = c.ReadU256(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewExtendedMiningJob pushes work to an extended or group channel. The
// downstream rebuilds the merkle root from the coinbase parts, its
// extranonce and the merkle path.
type NewExtendedMiningJob struct {
	ChannelID             uint32
	JobID                 uint32
	FutureJob             bool
	Version               uint32
	VersionRollingAllowed bool
	MerklePath            []codec.U256
	CoinbaseTxPrefix      []byte
	CoinbaseTxSuffix      []byte
}

func (m *NewExtendedMiningJob) MessageType() frame.MessageType {
	return frame.MsgNewExtendedMiningJob
}

func (m *NewExtendedMiningJob) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.JobID)
	w.WriteBool(m.FutureJob)
	w.WriteU32(m.Version)
	w.WriteBool(m.VersionRollingAllowed)
	err := codec.WriteSeq255(w, m.MerklePath, func(w *codec.Writer, h codec.U256) error {
		w.WriteU256(h)
		return nil
	})
	if err != nil {
		return err
	}
	if err := w.WriteB64K(m.CoinbaseTxPrefix); err != nil {
		return err
	}
	return w.WriteB64K(m.CoinbaseTxSuffix)
}

func decodeNewExtendedMiningJob(c *codec.Cursor) (Message, error) {
	var m NewExtendedMiningJob
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.JobID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.FutureJob, err = c.ReadBool(); err != nil {
		return nil, err
	}
	if m.Version, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.VersionRollingAllowed, err = c.ReadBool(); err != nil {
		return nil, err
	}
	if m.MerklePath, err = codec.ReadSeq255(c, (*codec.Cursor).ReadU256); err != nil {
		return nil, err
	}
	if m.CoinbaseTxPrefix, err = c.ReadB64K(); err != nil {
		return nil, err
	}
	if m.CoinbaseTxSuffix, err = c.ReadB64K(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetNewPrevHash announces a new chain tip and activates the referenced
// future job on the channel.
type SetNewPrevHash struct {
	ChannelID uint32
	JobID     uint32
	PrevHash  codec.U256
	MinNTime  uint32
	Nonce     uint32
}

func (m *SetNewPrevHash) MessageType() frame.MessageType { return frame.MsgSetNewPrevHash }

func (m *SetNewPrevHash) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU32(m.JobID)
	w.WriteU256(m.PrevHash)
	w.WriteU32(m.MinNTime)
	w.WriteU32(m.Nonce)
	return nil
}

func decodeSetNewPrevHash(c *codec.Cursor) (Message, error) {
	var m SetNewPrevHash
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.JobID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.PrevHash, err = c.ReadU256(); err != nil {
		return nil, err
	}
	if m.MinNTime, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.Nonce, err = c.ReadU32(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetTarget lowers or raises the share target of an open channel.
type SetTarget struct {
	ChannelID     uint32
	MaximumTarget codec.U256
}

func (m *SetTarget) MessageType() frame.MessageType { return frame.MsgSetTarget }

func (m *SetTarget) encode(w *codec.Writer) error {
	w.WriteU32(m.ChannelID)
	w.WriteU256(m.MaximumTarget)
	return nil
}

func decodeSetTarget(c *codec.Cursor) (Message, error) {
	var m SetTarget
	var err error
	if m.ChannelID, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.MaximumTarget, err = c.ReadU256(); err != nil {
		return nil, err
	}
	return &m, nil
}
