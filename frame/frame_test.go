package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestMarshalHeaderLayout(t *testing.T) {
	f := NewFrame(MsgSetupConnection, []byte{0xaa, 0xbb})
	out, err := f.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0xaa, 0xbb}
	if !bytes.Equal(out, want) {
		t.Fatalf("encoded %x, want %x", out, want)
	}
}

func TestMarshalChannelBit(t *testing.T) {
	f := NewFrame(MsgSubmitSharesStandard, nil)
	if !f.ChannelMsg {
		t.Fatal("SubmitSharesStandard should carry the channel bit")
	}
	out, err := f.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Little-endian u16 0x8000.
	if out[0] != 0x00 || out[1] != 0x80 {
		t.Fatalf("extension bytes %x %x, want 00 80", out[0], out[1])
	}
	if out[2] != 0x1a {
		t.Fatalf("msg_type byte %#x, want 0x1a", out[2])
	}
}

func TestMarshalRejectsOversizedExtension(t *testing.T) {
	f := Frame{ExtensionType: 0x8001}
	if _, err := f.Marshal(nil); !errors.Is(err, ErrExtensionTooLarge) {
		t.Fatalf("err = %v, want ErrExtensionTooLarge", err)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	out, err := NewFrame(MsgNewMiningJob, payload).Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	f, n, err := Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(out) {
		t.Fatalf("consumed %d, want %d", n, len(out))
	}
	if f.MessageType != MsgNewMiningJob || !f.ChannelMsg || f.ExtensionType != 0 {
		t.Fatalf("header fields wrong: %+v", f)
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Fatalf("payload %x, want %x", f.Payload, payload)
	}
}

func TestDecodeIncomplete(t *testing.T) {
	out, err := NewFrame(MsgSetTarget, make([]byte, 40)).Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < len(out); i++ {
		if _, n, err := Decode(out[:i]); !errors.Is(err, ErrIncomplete) || n != 0 {
			t.Fatalf("prefix %d: got n=%d err=%v, want ErrIncomplete", i, n, err)
		}
	}
}

func TestDecodeTrailingBytesLeftAlone(t *testing.T) {
	one, err := NewFrame(MsgCloseChannel, []byte{9}).Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	two := append(append([]byte(nil), one...), one...)
	_, n, err := Decode(two)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(one) {
		t.Fatalf("consumed %d, want %d", n, len(one))
	}
}

func TestDecodeChannelBitMismatch(t *testing.T) {
	// SetupConnection with the channel bit forced on.
	buf := []byte{0x00, 0x80, 0x00, 0x00, 0x00, 0x00}
	if _, _, err := Decode(buf); !errors.Is(err, ErrUnexpectedChannelBit) {
		t.Fatalf("err = %v, want ErrUnexpectedChannelBit", err)
	}
	// SetTarget with the channel bit missing.
	buf = []byte{0x00, 0x00, 0x21, 0x00, 0x00, 0x00}
	if _, _, err := Decode(buf); !errors.Is(err, ErrUnexpectedChannelBit) {
		t.Fatalf("err = %v, want ErrUnexpectedChannelBit", err)
	}
}

func TestDecodeUnknownTypePassesThrough(t *testing.T) {
	buf := []byte{0x00, 0x80, 0x7f, 0x01, 0x00, 0x00, 0xff}
	f, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf) || f.MessageType != 0x7f || !f.ChannelMsg {
		t.Fatalf("unexpected frame %+v consumed %d", f, n)
	}
}

func TestDecodeNonzeroExtensionSkipsCatalogCheck(t *testing.T) {
	// Extension 5, msg_type SetupConnection, channel bit set: not the base
	// protocol, so no catalog validation applies.
	buf := []byte{0x05, 0x80, 0x00, 0x00, 0x00, 0x00}
	f, _, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.ExtensionType != 5 || !f.ChannelMsg {
		t.Fatalf("unexpected frame %+v", f)
	}
}

func FuzzDecodeFrame(f *testing.F) {
	f.Add([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0x00, 0x80, 0x1a, 0x03, 0x00, 0x00, 1, 2, 3})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Fuzz(func(t *testing.T, data []byte) {
		fr, n, err := Decode(data)
		if err != nil {
			if n != 0 {
				t.Fatalf("consumed %d with err %v", n, err)
			}
			return
		}
		if n < HeaderLen || n > len(data) {
			t.Fatalf("consumed %d of %d", n, len(data))
		}
		out, err := fr.Marshal(nil)
		if err != nil {
			t.Fatalf("re-marshal: %v", err)
		}
		if !bytes.Equal(out, data[:n]) {
			t.Fatalf("round trip mismatch: %x vs %x", out, data[:n])
		}
	})
}
