package nbt

import (
	"fmt"
	"io"
	"math"

	"github.com/delaneyj/toolbelt/bytebufferpool"
)

// flushThreshold is the scratch size at which buffered bytes are handed to
// the sink mid-traversal.
const flushThreshold = 32 << 10

// Encoder writes NBT records to an underlying sink in a fixed byte order.
// It is not safe for concurrent use.
type Encoder struct {
	w        io.Writer
	order    ByteOrder
	bo       byteOrder
	buf      []byte
	closed   bool
	closeErr error
}

// NewEncoder returns an encoder writing to w in the given byte order. The
// encoder owns w until Close.
func NewEncoder(w io.Writer, order ByteOrder) *Encoder {
	return &Encoder{w: w, order: order, bo: order.binary()}
}

// ByteOrder returns the order chosen at construction.
func (e *Encoder) ByteOrder() ByteOrder { return e.order }

// WriteTag writes t as a full named-tag record: type code, u16 name length,
// Modified UTF-8 name, payload. The tree is validated before any byte is
// written, so a FormatError leaves the sink untouched. After an IOError the
// stream is in an unspecified state and should be discarded.
func (e *Encoder) WriteTag(t Tag) error {
	if e.closed {
		return ErrClosed
	}
	if _, err := TagSize(t); err != nil {
		return err
	}
	e.acquire()
	defer e.release()
	if err := e.writeTag(t); err != nil {
		return err
	}
	return e.flush(t)
}

// WritePayload writes only the payload bytes of t, without a header.
func (e *Encoder) WritePayload(t Tag) error {
	if e.closed {
		return ErrClosed
	}
	if _, err := PayloadSize(t); err != nil {
		return err
	}
	e.acquire()
	defer e.release()
	if err := e.writePayload(t); err != nil {
		return err
	}
	return e.flush(t)
}

// Close flushes and closes the sink when it supports those operations.
// Repeated calls return the result of the first.
func (e *Encoder) Close() error {
	if e.closed {
		return e.closeErr
	}
	e.closed = true
	if f, ok := e.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			e.closeErr = fmt.Errorf("nbt: flush sink: %w", err)
		}
	}
	if c, ok := e.w.(io.Closer); ok {
		if err := c.Close(); err != nil && e.closeErr == nil {
			e.closeErr = fmt.Errorf("nbt: close sink: %w", err)
		}
	}
	return e.closeErr
}

func (e *Encoder) acquire() {
	e.buf = getScratch()
}

func (e *Encoder) release() {
	putScratch(e.buf)
	e.buf = nil
}

func (e *Encoder) flush(t Tag) error {
	if len(e.buf) == 0 {
		return nil
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	return ioErr(t, err)
}

func (e *Encoder) maybeFlush(t Tag) error {
	if len(e.buf) < flushThreshold {
		return nil
	}
	return e.flush(t)
}

func (e *Encoder) writeTag(t Tag) error {
	e.buf = append(e.buf, byte(t.Type))
	if err := e.appendString(t, t.Name); err != nil {
		return err
	}
	return e.writePayload(t)
}

// appendString writes a u16 length prefix followed by Modified UTF-8 bytes.
// The prefix is patched after encoding so the length always matches the
// bytes that follow.
func (e *Encoder) appendString(t Tag, s string) error {
	start := len(e.buf)
	e.buf = append(e.buf, 0, 0)
	var err error
	e.buf, err = AppendModifiedUTF8(e.buf, s)
	if err != nil {
		return &FormatError{Type: t.Type, Name: t.Name, Err: err}
	}
	n := len(e.buf) - start - 2
	if n > maxStringLen {
		return formatErr(t, ErrLengthOverflow, "string is %d bytes", n)
	}
	e.bo.PutUint16(e.buf[start:start+2], uint16(n))
	return nil
}

func (e *Encoder) appendLen(n int) {
	e.buf = e.bo.AppendUint32(e.buf, uint32(int32(n)))
}

func (e *Encoder) writePayload(t Tag) error {
	switch t.Type {
	case TypeEnd:
	case TypeByte:
		e.buf = append(e.buf, byte(int8(t.I64)))
	case TypeShort:
		e.buf = e.bo.AppendUint16(e.buf, uint16(int16(t.I64)))
	case TypeInt:
		e.buf = e.bo.AppendUint32(e.buf, uint32(int32(t.I64)))
	case TypeLong:
		e.buf = e.bo.AppendUint64(e.buf, uint64(t.I64))
	case TypeFloat:
		e.buf = e.bo.AppendUint32(e.buf, math.Float32bits(float32(t.F64)))
	case TypeDouble:
		e.buf = e.bo.AppendUint64(e.buf, math.Float64bits(t.F64))
	case TypeByteArray:
		e.appendLen(len(t.Bytes))
		if len(t.Bytes) < flushThreshold {
			e.buf = append(e.buf, t.Bytes...)
			break
		}
		if err := e.flush(t); err != nil {
			return err
		}
		if _, err := e.w.Write(t.Bytes); err != nil {
			return ioErr(t, err)
		}
	case TypeString:
		if err := e.appendString(t, t.Str); err != nil {
			return err
		}
	case TypeList:
		e.buf = append(e.buf, byte(t.Elem))
		e.appendLen(len(t.List))
		for _, item := range t.List {
			if err := e.writePayload(item); err != nil {
				return err
			}
		}
	case TypeCompound:
		for _, child := range t.Compound.All() {
			if err := e.writeTag(child); err != nil {
				return err
			}
		}
		e.buf = append(e.buf, byte(TypeEnd))
	case TypeIntArray:
		e.appendLen(len(t.Ints))
		for i, v := range t.Ints {
			e.buf = e.bo.AppendUint32(e.buf, uint32(v))
			if i&0xFF == 0xFF {
				if err := e.maybeFlush(t); err != nil {
					return err
				}
			}
		}
	case TypeLongArray:
		e.appendLen(len(t.Longs))
		for i, v := range t.Longs {
			e.buf = e.bo.AppendUint64(e.buf, uint64(v))
			if i&0xFF == 0xFF {
				if err := e.maybeFlush(t); err != nil {
					return err
				}
			}
		}
	default:
		return formatErr(t, ErrUnknownType, "type code %d", uint8(t.Type))
	}
	return e.maybeFlush(t)
}

// Marshal encodes t as a named-tag record and returns the bytes.
func Marshal(t Tag, order ByteOrder) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := NewEncoder(buf, order).WriteTag(t); err != nil {
		return nil, err
	}
	out := append([]byte{}, buf.Bytes()...)
	return out, nil
}

// MarshalPayload encodes only the payload of t.
func MarshalPayload(t Tag, order ByteOrder) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := NewEncoder(buf, order).WritePayload(t); err != nil {
		return nil, err
	}
	out := append([]byte{}, buf.Bytes()...)
	return out, nil
}
