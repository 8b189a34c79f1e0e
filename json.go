package nbt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/minio/simdjson-go"
)

// FromJSON converts a JSON document into a tag named name. JSON carries no
// NBT types, so they are inferred:
//
//	object          Compound, keys in source order
//	string          String, or ByteArray for "b64:<base64>"
//	true/false      Byte 1/0
//	integer         Int, or Long outside the int32 range
//	fraction        Double
//	array           List typed by its elements; Int widens to Long to Double
//
// null has no NBT form and is rejected.
func FromJSON(name string, data []byte) (Tag, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Tag{}, fmt.Errorf("json input is empty")
	}
	if !simdjson.SupportedCPU() {
		// JSON is a YAML subset and the YAML path infers the same types.
		return fromYAMLDocument(name, trimmed)
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return fromYAMLDocument(name, trimmed)
	}
	parsed, err := simdjson.Parse(trimmed, nil)
	if err != nil {
		return Tag{}, err
	}
	it := parsed.Iter()
	if it.Advance() != simdjson.TypeRoot {
		return Tag{}, fmt.Errorf("json root not found")
	}
	typ, root, err := it.Root(nil)
	if err != nil {
		return Tag{}, err
	}
	return tagFromJSONIter(name, typ, root, 0)
}

func tagFromJSONIter(name string, typ simdjson.Type, it *simdjson.Iter, depth int) (Tag, error) {
	if depth > MaxDepth {
		return Tag{}, fmt.Errorf("json nesting deeper than %d", MaxDepth)
	}
	switch typ {
	case simdjson.TypeNull:
		return Tag{}, fmt.Errorf("json null at %q has no nbt form", name)
	case simdjson.TypeBool:
		v, err := it.Bool()
		if err != nil {
			return Tag{}, err
		}
		return boolTag(name, v), nil
	case simdjson.TypeInt:
		v, err := it.Int()
		if err != nil {
			return Tag{}, err
		}
		return intTag(name, v), nil
	case simdjson.TypeUint:
		v, err := it.Uint()
		if err != nil {
			return Tag{}, err
		}
		if v > math.MaxInt64 {
			return NewDouble(name, float64(v)), nil
		}
		return intTag(name, int64(v)), nil
	case simdjson.TypeFloat:
		v, err := it.Float()
		if err != nil {
			return Tag{}, err
		}
		return NewDouble(name, v), nil
	case simdjson.TypeString:
		b, err := it.StringBytes()
		if err != nil {
			return Tag{}, err
		}
		return stringTag(name, string(b)), nil
	case simdjson.TypeObject:
		obj, err := it.Object(nil)
		if err != nil {
			return Tag{}, err
		}
		c := NewCompoundMap()
		var parseErr error
		err = obj.ForEach(func(key []byte, elem simdjson.Iter) {
			if parseErr != nil {
				return
			}
			child, err := tagFromJSONIter(string(key), elem.Type(), &elem, depth+1)
			if err != nil {
				parseErr = err
				return
			}
			c.Set(child)
		}, nil)
		if err != nil {
			return Tag{}, err
		}
		if parseErr != nil {
			return Tag{}, parseErr
		}
		return Tag{Name: name, Type: TypeCompound, Compound: c}, nil
	case simdjson.TypeArray:
		arr, err := it.Array(nil)
		if err != nil {
			return Tag{}, err
		}
		var items []Tag
		iter := arr.Iter()
		for {
			t := iter.Advance()
			if t == simdjson.TypeNone {
				break
			}
			elem := iter
			item, err := tagFromJSONIter("", t, &elem, depth+1)
			if err != nil {
				return Tag{}, err
			}
			items = append(items, item)
		}
		return inferList(name, items)
	default:
		return Tag{}, fmt.Errorf("unsupported json type: %v", typ)
	}
}

func boolTag(name string, v bool) Tag {
	if v {
		return NewByte(name, 1)
	}
	return NewByte(name, 0)
}

func intTag(name string, v int64) Tag {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return NewInt(name, int32(v))
	}
	return NewLong(name, v)
}

func stringTag(name, s string) Tag {
	if strings.HasPrefix(s, "b64:") {
		if decoded, err := base64.StdEncoding.DecodeString(s[4:]); err == nil {
			return NewByteArray(name, decoded)
		}
	}
	return NewString(name, s)
}

func numericRank(t TagType) int {
	switch t {
	case TypeInt:
		return 1
	case TypeLong:
		return 2
	case TypeDouble:
		return 3
	default:
		return 0
	}
}

// inferList builds a list from untyped items. Numeric items widen to the
// widest kind present; any other mix is an error. An empty list is a list
// of End.
func inferList(name string, items []Tag) (Tag, error) {
	if len(items) == 0 {
		return NewList(name, TypeEnd), nil
	}
	elem := items[0].Type
	rank := numericRank(elem)
	for i, item := range items[1:] {
		r := numericRank(item.Type)
		switch {
		case item.Type == elem:
		case rank > 0 && r > 0:
			if r > rank {
				rank, elem = r, item.Type
			}
		default:
			return Tag{}, fmt.Errorf("list %q mixes %s and %s at index %d", name, elem, item.Type, i+1)
		}
	}
	for i := range items {
		if items[i].Type == elem {
			continue
		}
		if elem == TypeDouble {
			items[i] = NewDouble("", float64(items[i].I64))
		} else {
			items[i].Type = elem
		}
	}
	return NewList(name, elem, items...), nil
}

// ToJSON renders the payload of t as JSON. Byte arrays use the "b64:"
// string form accepted by FromJSON; NaN and infinities are rejected.
func ToJSON(t Tag) (string, error) {
	var sb strings.Builder
	if err := writeJSONTag(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeJSONTag(sb *strings.Builder, t Tag) error {
	switch t.Type {
	case TypeEnd:
		sb.WriteString("null")
	case TypeByte, TypeShort, TypeInt, TypeLong:
		sb.WriteString(strconv.FormatInt(t.I64, 10))
	case TypeFloat, TypeDouble:
		if math.IsNaN(t.F64) || math.IsInf(t.F64, 0) {
			return formatErr(t, ErrValueRange, "%g has no json form", t.F64)
		}
		bits := 64
		if t.Type == TypeFloat {
			bits = 32
		}
		s := strconv.FormatFloat(t.F64, 'g', -1, bits)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		sb.WriteString(s)
	case TypeByteArray:
		sb.WriteString(`"b64:`)
		sb.WriteString(base64.StdEncoding.EncodeToString(t.Bytes))
		sb.WriteByte('"')
	case TypeString:
		writeJSONString(sb, t.Str)
	case TypeList:
		sb.WriteByte('[')
		for i, item := range t.List {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSONTag(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case TypeCompound:
		sb.WriteByte('{')
		first := true
		for name, child := range t.Compound.All() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			writeJSONString(sb, name)
			sb.WriteByte(':')
			if err := writeJSONTag(sb, child); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	case TypeIntArray:
		sb.WriteByte('[')
		for i, v := range t.Ints {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(v), 10))
		}
		sb.WriteByte(']')
	case TypeLongArray:
		sb.WriteByte('[')
		for i, v := range t.Longs {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(v, 10))
		}
		sb.WriteByte(']')
	default:
		return formatErr(t, ErrUnknownType, "type code %d", uint8(t.Type))
	}
	return nil
}

func writeJSONString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				sb.WriteString(`\uFFFD`)
			} else {
				sb.WriteString(s[i : i+size])
			}
			i += size
			continue
		}
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigit(c >> 4))
				sb.WriteByte(hexDigit(c & 0xF))
			} else {
				sb.WriteByte(c)
			}
		}
		i++
	}
	sb.WriteByte('"')
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
