package mining

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/frame"
)

func validSetup() SetupConnection {
	return SetupConnection{
		Protocol:        ProtocolMining,
		MinVersion:      2,
		MaxVersion:      2,
		Flags:           FlagRequiresStandardJobs | FlagRequiresVersionRolling,
		EndpointHost:    "0.0.0.0",
		EndpointPort:    8545,
		Vendor:          "Bitmain",
		HardwareVersion: "901",
		Firmware:        "abcX-3d-443555",
		DeviceID:        "unique-device-id-32",
	}
}

func TestSetupConnectionRoundTrip(t *testing.T) {
	want := validSetup()
	m, err := NewSetupConnection(want)
	require.NoError(t, err)

	payload, err := Marshal(m)
	require.NoError(t, err)

	got, err := Unmarshal(frame.MsgSetupConnection, payload)
	require.NoError(t, err)
	require.Equal(t, &want, got)
}

func TestSetupConnectionValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SetupConnection)
		want   error
	}{
		{"empty vendor", func(m *SetupConnection) { m.Vendor = "" }, ErrMissingVendor},
		{"empty firmware", func(m *SetupConnection) { m.Firmware = "" }, ErrMissingFirmware},
		{"min version 1", func(m *SetupConnection) { m.MinVersion = 1 }, ErrVersionTooOld},
		{"max version 0", func(m *SetupConnection) { m.MaxVersion = 0 }, ErrVersionTooOld},
		{"bad protocol", func(m *SetupConnection) { m.Protocol = 9 }, ErrUnknownProtocol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := validSetup()
			tc.mutate(&sc)
			if _, err := NewSetupConnection(sc); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			// Encoding enforces the same rules.
			if _, err := Marshal(&sc); !errors.Is(err, tc.want) {
				t.Fatalf("marshal err = %v, want %v", err, tc.want)
			}
		})
	}
}

// encodeRawSetup writes the wire form of m without the construction checks
// Marshal applies, standing in for a peer that does not enforce them.
func encodeRawSetup(t *testing.T, m SetupConnection) []byte {
	t.Helper()
	var w codec.Writer
	w.WriteU8(uint8(m.Protocol))
	w.WriteU16(m.MinVersion)
	w.WriteU16(m.MaxVersion)
	w.WriteU32(uint32(m.Flags))
	require.NoError(t, w.WriteStr255(m.EndpointHost))
	w.WriteU16(m.EndpointPort)
	for _, s := range []string{m.Vendor, m.HardwareVersion, m.Firmware, m.DeviceID} {
		require.NoError(t, w.WriteStr255(s))
	}
	return w.Bytes()
}

func TestSetupConnectionDecodeEnforcesConstruction(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SetupConnection)
		want   error
	}{
		{"empty vendor", func(m *SetupConnection) { m.Vendor = "" }, ErrMissingVendor},
		{"empty firmware", func(m *SetupConnection) { m.Firmware = "" }, ErrMissingFirmware},
		{"min version 1", func(m *SetupConnection) { m.MinVersion = 1 }, ErrVersionTooOld},
		{"bad protocol", func(m *SetupConnection) { m.Protocol = 200 }, ErrUnknownProtocol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := validSetup()
			tc.mutate(&sc)
			_, err := Unmarshal(frame.MsgSetupConnection, encodeRawSetup(t, sc))
			require.ErrorIs(t, err, ErrMalformedMessage)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSetupConnectionErrorDecodeEnforcesConstruction(t *testing.T) {
	// unsupported-feature-flags with nothing rejected.
	var w codec.Writer
	w.WriteU32(0)
	require.NoError(t, w.WriteStr255(ErrorCodeUnsupportedFeatureFlags))
	_, err := Unmarshal(frame.MsgSetupConnectionError, w.Bytes())
	require.ErrorIs(t, err, ErrMalformedMessage)
	require.ErrorIs(t, err, ErrNoFlagsToReject)

	// Flag bits outside the defined set.
	w = codec.Writer{}
	w.WriteU32(1 << 30)
	require.NoError(t, w.WriteStr255(ErrorCodeUnsupportedFeatureFlags))
	_, err = Unmarshal(frame.MsgSetupConnectionError, w.Bytes())
	require.ErrorIs(t, err, ErrUnknownFlags)
}

func TestSetupConnectionUnknownFlagBits(t *testing.T) {
	m := validSetup()
	payload, err := Marshal(&m)
	require.NoError(t, err)

	// Flags live at offset 5 (protocol u8 + two u16 versions). Set bit 31.
	payload[8] |= 0x80
	_, err = Unmarshal(frame.MsgSetupConnection, payload)
	require.ErrorIs(t, err, ErrUnknownFlags)
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestSetupConnectionTrailingBytes(t *testing.T) {
	m := validSetup()
	payload, err := Marshal(&m)
	require.NoError(t, err)

	_, err = Unmarshal(frame.MsgSetupConnection, append(payload, 0x00))
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestSetupConnectionSuccessUnknownFlagBits(t *testing.T) {
	payload, err := Marshal(&SetupConnectionSuccess{UsedVersion: 2, Flags: FlagRequiresFixedVersion})
	require.NoError(t, err)

	// Flags start after the u16 version. Set bit 2, outside the defined set.
	payload[2] |= 0x04
	_, err = Unmarshal(frame.MsgSetupConnectionSuccess, payload)
	require.ErrorIs(t, err, ErrUnknownFlags)
}

func TestNewSetupConnectionError(t *testing.T) {
	_, err := NewSetupConnectionError(0, ErrorCodeUnsupportedFeatureFlags)
	require.ErrorIs(t, err, ErrNoFlagsToReject)

	m, err := NewSetupConnectionError(FlagRequiresWorkSelection, ErrorCodeUnsupportedFeatureFlags)
	require.NoError(t, err)
	require.Equal(t, ErrorCodeUnsupportedFeatureFlags, m.ErrorCode)

	_, err = NewSetupConnectionError(0, "some-novel-code")
	require.ErrorIs(t, err, ErrUnknownErrorCode)

	m, err = NewSetupConnectionError(0, ErrorCodeVersionMismatch)
	require.NoError(t, err)

	payload, err := Marshal(m)
	require.NoError(t, err)
	got, err := Unmarshal(frame.MsgSetupConnectionError, payload)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestSetupConnectionErrorDecodeRejectsUnknownCode(t *testing.T) {
	payload, err := Marshal(&SetupConnectionError{ErrorCode: "made-up"})
	require.NoError(t, err)
	_, err = Unmarshal(frame.MsgSetupConnectionError, payload)
	require.ErrorIs(t, err, ErrUnknownErrorCode)
}

func FuzzSetupConnection(f *testing.F) {
	seed, _ := Marshal(&SetupConnection{
		Protocol: ProtocolMining, MinVersion: 2, MaxVersion: 2,
		Vendor: "v", Firmware: "f",
	})
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x02, 0x00, 0x02, 0x00, 0xff, 0xff, 0xff, 0xff})
	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := Unmarshal(frame.MsgSetupConnection, data)
		if err != nil {
			return
		}
		out, err := Marshal(m)
		if err != nil {
			t.Fatalf("decoded message failed to re-encode: %v", err)
		}
		if string(out) != string(data) {
			t.Fatalf("round trip mismatch:\n in %x\nout %x", data, out)
		}
	})
}
