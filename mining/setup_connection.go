package mining

import (
	"fmt"

	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

// SetupConnection is the first message on every connection. Both sides
// agree on a protocol version in [MinVersion, MaxVersion] or the upstream
// answers with SetupConnectionError.
type SetupConnection struct {
	Protocol        Protocol
	MinVersion      uint16
	MaxVersion      uint16
	Flags           SetupFlags
	EndpointHost    string
	EndpointPort    uint16
	Vendor          string
	HardwareVersion string
	Firmware        string
	DeviceID        string
}

// NewSetupConnection validates the device fields and version range before
// handing back an encodable message.
func NewSetupConnection(sc SetupConnection) (*SetupConnection, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate enforces the construction rules: a known protocol, vendor and
// firmware identification, and a version range at or above 2.
func (m *SetupConnection) Validate() error {
	if m.Protocol > ProtocolJobDistribution {
		return fmt.Errorf("%w: %d", ErrUnknownProtocol, m.Protocol)
	}
	if m.Vendor == "" {
		return ErrMissingVendor
	}
	if m.Firmware == "" {
		return ErrMissingFirmware
	}
	if m.MinVersion < 2 || m.MaxVersion < 2 {
		return ErrVersionTooOld
	}
	return nil
}

func (m *SetupConnection) MessageType() frame.MessageType { return frame.MsgSetupConnection }

func (m *SetupConnection) encode(w *codec.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}
	w.WriteU8(uint8(m.Protocol))
	w.WriteU16(m.MinVersion)
	w.WriteU16(m.MaxVersion)
	w.WriteU32(uint32(m.Flags))
	if err := w.WriteStr255(m.EndpointHost); err != nil {
		return err
	}
	w.WriteU16(m.EndpointPort)
	if err := w.WriteStr255(m.Vendor); err != nil {
		return err
	}
	if err := w.WriteStr255(m.HardwareVersion); err != nil {
		return err
	}
	if err := w.WriteStr255(m.Firmware); err != nil {
		return err
	}
	return w.WriteStr255(m.DeviceID)
}

func decodeSetupConnection(c *codec.Cursor) (Message, error) {
	var m SetupConnection
	proto, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	m.Protocol = Protocol(proto)
	if m.MinVersion, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.MaxVersion, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.Flags, err = readSetupFlags(c); err != nil {
		return nil, err
	}
	if m.EndpointHost, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.EndpointPort, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.Vendor, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.HardwareVersion, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.Firmware, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	if m.DeviceID, err = c.ReadStr255(); err != nil {
		return nil, err
	}
	// Construction rules hold on the wire too: a peer that omits its
	// vendor or speaks a pre-2 version sent a malformed message.
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetupConnectionSuccess acknowledges SetupConnection with the version the
// upstream selected and its own requirement flags.
type SetupConnectionSuccess struct {
	UsedVersion uint16
	Flags       SuccessFlags
}

func (m *SetupConnectionSuccess) MessageType() frame.MessageType {
	return frame.MsgSetupConnectionSuccess
}

func (m *SetupConnectionSuccess) encode(w *codec.Writer) error {
	w.WriteU16(m.UsedVersion)
	w.WriteU32(uint32(m.Flags))
	return nil
}

func decodeSetupConnectionSuccess(c *codec.Cursor) (Message, error) {
	var m SetupConnectionSuccess
	var err error
	if m.UsedVersion, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.Flags, err = readSuccessFlags(c); err != nil {
		return nil, err
	}
	return &m, nil
}

// Error codes SetupConnectionError may carry.
const (
	ErrorCodeUnsupportedFeatureFlags = "unsupported-feature-flags"
	ErrorCodeUnsupportedProtocol     = "unsupported-protocol"
	ErrorCodeVersionMismatch         = "protocol-version-mismatch"
)

// SetupConnectionError rejects a SetupConnection. Flags echoes the feature
// bits the upstream refused; it must be nonzero when the error code is
// unsupported-feature-flags.
type SetupConnectionError struct {
	Flags     SetupFlags
	ErrorCode string
}

// NewSetupConnectionError checks the error code against the catalog and the
// flags against the code's requirements.
func NewSetupConnectionError(flags SetupFlags, code string) (*SetupConnectionError, error) {
	switch code {
	case ErrorCodeUnsupportedFeatureFlags:
		if flags == 0 {
			return nil, ErrNoFlagsToReject
		}
	case ErrorCodeUnsupportedProtocol, ErrorCodeVersionMismatch:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownErrorCode, code)
	}
	return &SetupConnectionError{Flags: flags, ErrorCode: code}, nil
}

func (m *SetupConnectionError) MessageType() frame.MessageType {
	return frame.MsgSetupConnectionError
}

func (m *SetupConnectionError) encode(w *codec.Writer) error {
	w.WriteU32(uint32(m.Flags))
	return w.WriteStr255(m.ErrorCode)
}

func decodeSetupConnectionError(c *codec.Cursor) (Message, error) {
	flags, err := readSetupFlags(c)
	if err != nil {
		return nil, err
	}
	code, err := c.ReadStr255()
	if err != nil {
		return nil, err
	}
	// Same rules as construction: catalog codes only, and rejecting
	// feature flags requires naming them.
	m, err := NewSetupConnectionError(flags, code)
	if err != nil {
		return nil, err
	}
	return m, nil
}
