package mining

import (
	"fmt"

	"github.com/lodepool/sv2core/codec"
)

// Protocol identifies the sub-protocol a connection is set up for.
type Protocol uint8

const (
	ProtocolMining               Protocol = 0
	ProtocolJobNegotiation       Protocol = 1
	ProtocolTemplateDistribution Protocol = 2
	ProtocolJobDistribution      Protocol = 3
)

// SetupFlags are the feature bits a downstream declares in SetupConnection.
type SetupFlags uint32

const (
	FlagRequiresStandardJobs   SetupFlags = 1 << 0
	FlagRequiresWorkSelection  SetupFlags = 1 << 1
	FlagRequiresVersionRolling SetupFlags = 1 << 2
)

const setupFlagsMask = FlagRequiresStandardJobs | FlagRequiresWorkSelection | FlagRequiresVersionRolling

// SuccessFlags are the feature bits an upstream answers with in
// SetupConnectionSuccess.
type SuccessFlags uint32

const (
	FlagRequiresFixedVersion     SuccessFlags = 1 << 0
	FlagRequiresExtendedChannels SuccessFlags = 1 << 1
)

const successFlagsMask = FlagRequiresFixedVersion | FlagRequiresExtendedChannels

func readSetupFlags(c *codec.Cursor) (SetupFlags, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	f := SetupFlags(v)
	if f&^setupFlagsMask != 0 {
		return 0, fmt.Errorf("%w: 0x%08x", ErrUnknownFlags, v)
	}
	return f, nil
}

func readSuccessFlags(c *codec.Cursor) (SuccessFlags, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	f := SuccessFlags(v)
	if f&^successFlagsMask != 0 {
		return 0, fmt.Errorf("%w: 0x%08x", ErrUnknownFlags, v)
	}
	return f, nil
}
