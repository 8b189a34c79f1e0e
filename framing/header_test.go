package framing

import (
	"bytes"
	"io"
	"testing"
)

func TestHeader(t *testing.T) {
	payload := []byte{0x0A, 0x00, 0x00, 0x00}
	b := AppendHeader(nil, Header{StorageVersion: 10, Length: uint32(len(payload))})
	if !bytes.Equal(b, []byte{10, 0, 0, 0, 4, 0, 0, 0}) {
		t.Fatalf("header bytes % X", b)
	}
	b = append(b, payload...)
	b = append(b, 0xFF) // past the declared length

	h, r, err := ReadHeader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.StorageVersion != 10 || h.Length != 4 {
		t.Fatalf("header %+v", h)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload % X", got)
	}
	if _, err := ParseHeader(b[:5]); err == nil {
		t.Fatalf("short header accepted")
	}
	if _, _, err := ReadHeader(bytes.NewReader(b[:3])); err == nil {
		t.Fatalf("truncated header accepted")
	}
}
