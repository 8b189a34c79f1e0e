// Package framing wraps NBT streams in the compression containers used by
// Minecraft files: gzip (level.dat, player data) and zlib (region chunks).
package framing

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression identifies the container around an NBT stream.
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zlib
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses the String form of a Compression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zlib":
		return Zlib, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer that compresses into w. Closing it finishes the
// container but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case Zlib:
		return zlib.NewWriterLevel(w, zlib.DefaultCompression)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
}

// Detect reports the container of a stream from its first two bytes.
func Detect(head []byte) Compression {
	if len(head) < 2 {
		return None
	}
	switch {
	case head[0] == 0x1F && head[1] == 0x8B:
		return Gzip
	case head[0] == 0x78 && (head[1] == 0x01 || head[1] == 0x5E || head[1] == 0x9C || head[1] == 0xDA):
		return Zlib
	default:
		return None
	}
}

// NewReader sniffs the container of r and returns a reader over the
// decompressed NBT bytes together with the detected compression.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, None, fmt.Errorf("framing: peek header: %w", err)
	}
	c := Detect(head)
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("framing: open gzip: %w", err)
		}
		return zr, c, nil
	case Zlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("framing: open zlib: %w", err)
		}
		return zr, c, nil
	default:
		return io.NopCloser(br), None, nil
	}
}
