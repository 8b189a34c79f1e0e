package nbt

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzUnmarshal feeds arbitrary bytes to the decoder. Anything it accepts
// must survive a second encode and decode unchanged.
func FuzzUnmarshal(f *testing.F) {
	seeds := [][]byte{
		{0x00},
		{0x01, 0x00, 0x00, 0x7F},
		{0x08, 0x00, 0x01, 'n', 0x00, 0x02, 0xC0, 0x80},
		{0x09, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02},
		{0x0A, 0x00, 0x00, 0x01, 0x00, 0x01, 'b', 0x05, 0x00},
		{0x0B, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x0A, 0x00, 0x00, 0x0A, 0x00, 0x00},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	for seed := uint64(0); seed < 8; seed++ {
		out, err := Marshal(randomTree(seed), BigEndian)
		if err != nil {
			f.Fatalf("seed %d: %v", seed, err)
		}
		f.Add(out)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		tag, err := Unmarshal(data, BigEndian)
		if err != nil {
			var fe *FormatError
			var ie *IOError
			if !errors.As(err, &fe) && !errors.As(err, &ie) {
				t.Fatalf("untyped decode error: %v", err)
			}
			return
		}
		if tag.Type == TypeEnd {
			return
		}
		out, err := Marshal(tag, BigEndian)
		if err != nil {
			t.Fatalf("re-encode of decoded tag failed: %v", err)
		}
		if len(out) > len(data) {
			t.Fatalf("re-encoded %d bytes from %d input bytes", len(out), len(data))
		}
		back, err := Unmarshal(out, BigEndian)
		if err != nil {
			t.Fatalf("decode of re-encoded bytes failed: %v", err)
		}
		if !back.Equal(tag) {
			t.Fatalf("second round trip changed the tree:\n%v\n%v", tag, back)
		}
	})
}

// FuzzRoundTrip derives a random tree from the fuzz seed and checks that
// both byte orders carry it unchanged and that the size pass matches the
// bytes written.
func FuzzRoundTrip(f *testing.F) {
	for _, seed := range []uint64{0, 1, 42, 1 << 40} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, seed uint64) {
		tree := randomTree(seed)
		size, err := TagSize(tree)
		if err != nil {
			t.Fatalf("size: %v", err)
		}
		for _, order := range []ByteOrder{BigEndian, LittleEndian} {
			var buf bytes.Buffer
			enc := NewEncoder(&buf, order)
			if err := enc.WriteTag(tree); err != nil {
				t.Fatalf("%s: write: %v", order, err)
			}
			if err := enc.Close(); err != nil {
				t.Fatalf("%s: close: %v", order, err)
			}
			if buf.Len() != size {
				t.Fatalf("%s: wrote %d bytes, TagSize said %d", order, buf.Len(), size)
			}
			got, err := Unmarshal(buf.Bytes(), order)
			if err != nil {
				t.Fatalf("%s: decode: %v", order, err)
			}
			if !got.Equal(tree) {
				t.Fatalf("%s: round trip mismatch", order)
			}
		}
	})
}
