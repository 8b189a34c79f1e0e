package framing

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the length of the Bedrock level.dat header.
const HeaderSize = 8

// Header precedes the little-endian NBT payload of a Bedrock level.dat file.
type Header struct {
	StorageVersion uint32
	Length         uint32
}

// ParseHeader parses the first HeaderSize bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("framing: header too short: %d", len(b))
	}
	return Header{
		StorageVersion: binary.LittleEndian.Uint32(b[0:4]),
		Length:         binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

// AppendHeader appends h to dst and returns the extended slice.
func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.StorageVersion)
	return binary.LittleEndian.AppendUint32(dst, h.Length)
}

// ReadHeader reads a header from r and returns a reader limited to the
// payload length it declares.
func ReadHeader(r io.Reader) (Header, io.Reader, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, nil, fmt.Errorf("framing: read header: %w", err)
	}
	h, err := ParseHeader(b[:])
	if err != nil {
		return Header{}, nil, err
	}
	return h, io.LimitReader(r, int64(h.Length)), nil
}
