package nbt

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects the byte order of every multibyte primitive and length
// prefix in a stream.
type ByteOrder uint8

const (
	// BigEndian is the canonical (Java edition) order.
	BigEndian ByteOrder = iota
	// LittleEndian is the Bedrock edition variant.
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

// ParseByteOrder accepts "big"/"be" and "little"/"le".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big", "be", "":
		return BigEndian, nil
	case "little", "le":
		return LittleEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q", s)
	}
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (o ByteOrder) binary() byteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
