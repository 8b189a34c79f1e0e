package nbt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
)

// readChunk bounds how much is allocated ahead of data actually arriving
// when a length prefix is large.
const readChunk = 64 << 10

// Decoder reads NBT records written by Encoder. It buffers the source, so it
// may consume bytes past the last record it returns.
type Decoder struct {
	r     *bufio.Reader
	order ByteOrder
	bo    byteOrder
	tmp   [8]byte
}

func NewDecoder(r io.Reader, order ByteOrder) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, order: order, bo: order.binary()}
}

// ByteOrder returns the order chosen at construction.
func (d *Decoder) ByteOrder() ByteOrder { return d.order }

// ReadTag reads one named-tag record. A lone End byte yields End(). io.EOF
// is returned unwrapped when the source ends cleanly before a record.
func (d *Decoder) ReadTag() (Tag, error) {
	code, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Tag{}, io.EOF
		}
		return Tag{}, &IOError{Err: err}
	}
	typ, err := TypeFromCode(code)
	if err != nil {
		return Tag{}, err
	}
	if typ == TypeEnd {
		return End(), nil
	}
	name, err := d.readString(Tag{Type: typ})
	if err != nil {
		return Tag{}, err
	}
	return d.readPayload(typ, name, 0)
}

// ReadPayload reads a bare payload of the given type.
func (d *Decoder) ReadPayload(typ TagType) (Tag, error) {
	if !typ.Valid() {
		return Tag{}, &FormatError{Type: typ, Err: fmt.Errorf("%w: type code %d", ErrUnknownType, uint8(typ))}
	}
	return d.readPayload(typ, "", 0)
}

// Unmarshal decodes exactly one named-tag record from b.
func Unmarshal(b []byte, order ByteOrder) (Tag, error) {
	d := NewDecoder(bytes.NewReader(b), order)
	t, err := d.ReadTag()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Tag{}, &IOError{Err: io.ErrUnexpectedEOF}
		}
		return Tag{}, err
	}
	if _, err := d.r.ReadByte(); err == nil {
		return Tag{}, formatErr(t, ErrTrailingData, "%d bytes left", d.r.Buffered()+1)
	}
	return t, nil
}

func (d *Decoder) readFull(ctx Tag, b []byte) error {
	if _, err := io.ReadFull(d.r, b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Type: ctx.Type, Name: ctx.Name, Err: err}
	}
	return nil
}

func (d *Decoder) readU8(ctx Tag) (byte, error) {
	if err := d.readFull(ctx, d.tmp[:1]); err != nil {
		return 0, err
	}
	return d.tmp[0], nil
}

func (d *Decoder) readU16(ctx Tag) (uint16, error) {
	if err := d.readFull(ctx, d.tmp[:2]); err != nil {
		return 0, err
	}
	return d.bo.Uint16(d.tmp[:2]), nil
}

func (d *Decoder) readU32(ctx Tag) (uint32, error) {
	if err := d.readFull(ctx, d.tmp[:4]); err != nil {
		return 0, err
	}
	return d.bo.Uint32(d.tmp[:4]), nil
}

func (d *Decoder) readU64(ctx Tag) (uint64, error) {
	if err := d.readFull(ctx, d.tmp[:8]); err != nil {
		return 0, err
	}
	return d.bo.Uint64(d.tmp[:8]), nil
}

func (d *Decoder) readLen(ctx Tag) (int, error) {
	u, err := d.readU32(ctx)
	if err != nil {
		return 0, err
	}
	n := int32(u)
	if n < 0 {
		return 0, formatErr(ctx, ErrNegativeLength, "%d", n)
	}
	return int(n), nil
}

// readBytes reads n bytes, growing the result as data arrives.
func (d *Decoder) readBytes(ctx Tag, n int) ([]byte, error) {
	out := make([]byte, 0, min(n, readChunk))
	for len(out) < n {
		k := min(n-len(out), readChunk)
		start := len(out)
		out = append(out, make([]byte, k)...)
		if err := d.readFull(ctx, out[start:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *Decoder) readString(ctx Tag) (string, error) {
	n, err := d.readU16(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := getScratch()
	defer putScratch(buf)
	if cap(buf) < int(n) {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	if err := d.readFull(ctx, buf); err != nil {
		return "", err
	}
	s, err := DecodeModifiedUTF8(buf)
	if err != nil {
		return "", &FormatError{Type: ctx.Type, Name: ctx.Name, Err: err}
	}
	return s, nil
}

func (d *Decoder) readPayload(typ TagType, name string, depth int) (Tag, error) {
	t := Tag{Name: name, Type: typ}
	if depth > MaxDepth {
		return Tag{}, formatErr(t, ErrDepth, "depth %d", depth)
	}
	switch typ {
	case TypeEnd:
	case TypeByte:
		v, err := d.readU8(t)
		if err != nil {
			return Tag{}, err
		}
		t.I64 = int64(int8(v))
	case TypeShort:
		v, err := d.readU16(t)
		if err != nil {
			return Tag{}, err
		}
		t.I64 = int64(int16(v))
	case TypeInt:
		v, err := d.readU32(t)
		if err != nil {
			return Tag{}, err
		}
		t.I64 = int64(int32(v))
	case TypeLong:
		v, err := d.readU64(t)
		if err != nil {
			return Tag{}, err
		}
		t.I64 = int64(v)
	case TypeFloat:
		v, err := d.readU32(t)
		if err != nil {
			return Tag{}, err
		}
		t.F64 = float64(math.Float32frombits(v))
	case TypeDouble:
		v, err := d.readU64(t)
		if err != nil {
			return Tag{}, err
		}
		t.F64 = math.Float64frombits(v)
	case TypeByteArray:
		n, err := d.readLen(t)
		if err != nil {
			return Tag{}, err
		}
		if t.Bytes, err = d.readBytes(t, n); err != nil {
			return Tag{}, err
		}
	case TypeString:
		s, err := d.readString(t)
		if err != nil {
			return Tag{}, err
		}
		t.Str = s
	case TypeList:
		code, err := d.readU8(t)
		if err != nil {
			return Tag{}, err
		}
		elem, err := TypeFromCode(code)
		if err != nil {
			return Tag{}, formatErr(t, ErrUnknownType, "list element type code %d", code)
		}
		n, err := d.readLen(t)
		if err != nil {
			return Tag{}, err
		}
		if elem == TypeEnd && n > 0 {
			return Tag{}, formatErr(t, ErrElementType, "non-empty list of %s", TypeEnd)
		}
		t.Elem = elem
		t.List = make([]Tag, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			item, err := d.readPayload(elem, "", depth+1)
			if err != nil {
				return Tag{}, err
			}
			t.List = append(t.List, item)
		}
	case TypeCompound:
		t.Compound = NewCompoundMap()
		for {
			code, err := d.readU8(t)
			if err != nil {
				return Tag{}, err
			}
			ct, err := TypeFromCode(code)
			if err != nil {
				return Tag{}, err
			}
			if ct == TypeEnd {
				break
			}
			childName, err := d.readString(Tag{Type: ct})
			if err != nil {
				return Tag{}, err
			}
			child, err := d.readPayload(ct, childName, depth+1)
			if err != nil {
				return Tag{}, err
			}
			t.Compound.Set(child)
		}
	case TypeIntArray:
		n, err := d.readLen(t)
		if err != nil {
			return Tag{}, err
		}
		t.Ints = make([]int32, 0, min(n, readChunk/4))
		err = d.readWords(t, n, 4, func(b []byte) {
			t.Ints = append(t.Ints, int32(d.bo.Uint32(b)))
		})
		if err != nil {
			return Tag{}, err
		}
	case TypeLongArray:
		n, err := d.readLen(t)
		if err != nil {
			return Tag{}, err
		}
		t.Longs = make([]int64, 0, min(n, readChunk/8))
		err = d.readWords(t, n, 8, func(b []byte) {
			t.Longs = append(t.Longs, int64(d.bo.Uint64(b)))
		})
		if err != nil {
			return Tag{}, err
		}
	default:
		return Tag{}, formatErr(t, ErrUnknownType, "type code %d", uint8(typ))
	}
	return t, nil
}

// readWords reads n fixed-width words in bounded chunks through a pooled
// scratch buffer, calling fn for each word.
func (d *Decoder) readWords(ctx Tag, n, width int, fn func([]byte)) error {
	buf := getScratch()
	defer putScratch(buf)
	per := cap(buf) / width
	if per == 0 {
		per = 1
		buf = make([]byte, width)
	}
	for n > 0 {
		k := min(n, per)
		chunk := buf[:k*width]
		if err := d.readFull(ctx, chunk); err != nil {
			return err
		}
		for i := 0; i < k; i++ {
			fn(chunk[i*width : (i+1)*width])
		}
		n -= k
	}
	return nil
}
