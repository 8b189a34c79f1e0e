package framing

import (
	"bytes"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte{0x0A, 0x00, 0x05, 'h', 'e', 'l', 'l', 'o', 0x00}
	for _, c := range []Compression{None, Gzip, Zlib} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			if err != nil {
				t.Fatalf("new writer: %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			if c == None && !bytes.Equal(buf.Bytes(), payload) {
				t.Fatalf("none framing altered bytes: % X", buf.Bytes())
			}
			r, got, err := NewReader(&buf)
			if err != nil {
				t.Fatalf("new reader: %v", err)
			}
			defer r.Close()
			if got != c {
				t.Fatalf("detected %s, want %s", got, c)
			}
			out, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(out, payload) {
				t.Fatalf("payload mismatch: % X", out)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		head []byte
		want Compression
	}{
		{nil, None},
		{[]byte{0x0A}, None},
		{[]byte{0x1F, 0x8B}, Gzip},
		{[]byte{0x78, 0x9C}, Zlib},
		{[]byte{0x78, 0xDA}, Zlib},
		{[]byte{0x78, 0x00}, None},
		{[]byte{0x0A, 0x00}, None},
	}
	for _, tc := range cases {
		if got := Detect(tc.head); got != tc.want {
			t.Fatalf("Detect(% X) = %s, want %s", tc.head, got, tc.want)
		}
	}
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"none", "gzip", "zlib"} {
		c, err := ParseCompression(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if c.String() != name {
			t.Fatalf("parse %q gave %s", name, c)
		}
	}
	if _, err := ParseCompression("lzma"); err == nil {
		t.Fatalf("expected error for unknown compression")
	}
}
