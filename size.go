package nbt

import (
	"math"
)

// MaxDepth bounds compound/list nesting for both encoding and decoding.
const MaxDepth = 512

// TagSize returns the exact number of bytes WriteTag emits for t. It also
// validates the whole sub-tree and reports the first FormatError found.
func TagSize(t Tag) (int, error) {
	if t.Type == TypeEnd {
		return 0, formatErr(t, ErrUnknownType, "end tag cannot be written as a named record")
	}
	nameLen, err := nameSize(t)
	if err != nil {
		return 0, err
	}
	n, err := payloadSize(t, 0)
	if err != nil {
		return 0, err
	}
	return 1 + 2 + nameLen + n, nil
}

// PayloadSize returns the exact number of payload bytes WritePayload emits
// for t. The result does not depend on t.Name.
func PayloadSize(t Tag) (int, error) {
	return payloadSize(t, 0)
}

func nameSize(t Tag) (int, error) {
	n, err := ModifiedUTF8Len(t.Name)
	if err != nil {
		return 0, &FormatError{Type: t.Type, Name: t.Name, Err: err}
	}
	if n > maxStringLen {
		return 0, formatErr(t, ErrLengthOverflow, "name is %d bytes", n)
	}
	return n, nil
}

func arrayLen(t Tag, n int) error {
	if n > math.MaxInt32 {
		return formatErr(t, ErrLengthOverflow, "%d elements", n)
	}
	return nil
}

func payloadSize(t Tag, depth int) (int, error) {
	if depth > MaxDepth {
		return 0, formatErr(t, ErrDepth, "depth %d", depth)
	}
	switch t.Type {
	case TypeEnd:
		return 0, nil
	case TypeByte:
		if t.I64 < math.MinInt8 || t.I64 > math.MaxInt8 {
			return 0, formatErr(t, ErrValueRange, "%d", t.I64)
		}
		return 1, nil
	case TypeShort:
		if t.I64 < math.MinInt16 || t.I64 > math.MaxInt16 {
			return 0, formatErr(t, ErrValueRange, "%d", t.I64)
		}
		return 2, nil
	case TypeInt:
		if t.I64 < math.MinInt32 || t.I64 > math.MaxInt32 {
			return 0, formatErr(t, ErrValueRange, "%d", t.I64)
		}
		return 4, nil
	case TypeLong:
		return 8, nil
	case TypeFloat:
		if math.IsInf(float64(float32(t.F64)), 0) && !math.IsInf(t.F64, 0) {
			return 0, formatErr(t, ErrValueRange, "%g overflows float32", t.F64)
		}
		return 4, nil
	case TypeDouble:
		return 8, nil
	case TypeByteArray:
		if err := arrayLen(t, len(t.Bytes)); err != nil {
			return 0, err
		}
		return 4 + len(t.Bytes), nil
	case TypeString:
		n, err := ModifiedUTF8Len(t.Str)
		if err != nil {
			return 0, &FormatError{Type: t.Type, Name: t.Name, Err: err}
		}
		if n > maxStringLen {
			return 0, formatErr(t, ErrLengthOverflow, "string is %d bytes", n)
		}
		return 2 + n, nil
	case TypeList:
		if !t.Elem.Valid() {
			return 0, formatErr(t, ErrUnknownType, "list element type code %d", uint8(t.Elem))
		}
		if t.Elem == TypeEnd && len(t.List) > 0 {
			return 0, formatErr(t, ErrElementType, "non-empty list of %s", TypeEnd)
		}
		if err := arrayLen(t, len(t.List)); err != nil {
			return 0, err
		}
		total := 1 + 4
		for i, item := range t.List {
			if item.Type != t.Elem {
				return 0, formatErr(t, ErrElementType, "element %d is %s, list holds %s", i, item.Type, t.Elem)
			}
			n, err := payloadSize(item, depth+1)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case TypeCompound:
		total := 1
		for _, child := range t.Compound.All() {
			if child.Type == TypeEnd {
				return 0, formatErr(child, ErrUnknownType, "end tag cannot be a compound child")
			}
			if !child.Type.Valid() {
				return 0, formatErr(child, ErrUnknownType, "type code %d", uint8(child.Type))
			}
			nameLen, err := nameSize(child)
			if err != nil {
				return 0, err
			}
			n, err := payloadSize(child, depth+1)
			if err != nil {
				return 0, err
			}
			total += 1 + 2 + nameLen + n
		}
		return total, nil
	case TypeIntArray:
		if err := arrayLen(t, len(t.Ints)); err != nil {
			return 0, err
		}
		return 4 + 4*len(t.Ints), nil
	case TypeLongArray:
		if err := arrayLen(t, len(t.Longs)); err != nil {
			return 0, err
		}
		return 4 + 8*len(t.Longs), nil
	default:
		return 0, formatErr(t, ErrUnknownType, "type code %d", uint8(t.Type))
	}
}
