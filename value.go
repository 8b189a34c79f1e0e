package nbt

import (
	"bytes"
	"fmt"
	"math"
	"slices"
)

// Tag is a single NBT value. Type selects which payload field is meaningful:
//
//	Byte, Short, Int, Long  I64
//	Float, Double           F64
//	ByteArray               Bytes
//	String                  Str
//	List                    Elem and List
//	Compound                Compound
//	IntArray                Ints
//	LongArray               Longs
//
// Name is written in the record header; it is ignored for list elements.
type Tag struct {
	Name     string
	Type     TagType
	I64      int64
	F64      float64
	Str      string
	Bytes    []byte
	Ints     []int32
	Longs    []int64
	Elem     TagType
	List     []Tag
	Compound *Compound
}

// End returns the structural end tag.
func End() Tag { return Tag{Type: TypeEnd} }

func NewByte(name string, v int8) Tag {
	return Tag{Name: name, Type: TypeByte, I64: int64(v)}
}

func NewShort(name string, v int16) Tag {
	return Tag{Name: name, Type: TypeShort, I64: int64(v)}
}

func NewInt(name string, v int32) Tag {
	return Tag{Name: name, Type: TypeInt, I64: int64(v)}
}

func NewLong(name string, v int64) Tag {
	return Tag{Name: name, Type: TypeLong, I64: v}
}

func NewFloat(name string, v float32) Tag {
	return Tag{Name: name, Type: TypeFloat, F64: float64(v)}
}

func NewDouble(name string, v float64) Tag {
	return Tag{Name: name, Type: TypeDouble, F64: v}
}

func NewByteArray(name string, v []byte) Tag {
	return Tag{Name: name, Type: TypeByteArray, Bytes: v}
}

func NewString(name, v string) Tag {
	return Tag{Name: name, Type: TypeString, Str: v}
}

// NewList returns a list declaring elem as its element type. The declared
// type is kept even when items is empty.
func NewList(name string, elem TagType, items ...Tag) Tag {
	return Tag{Name: name, Type: TypeList, Elem: elem, List: items}
}

// NewCompound returns a compound holding children in the given order. A
// later child replaces an earlier one with the same name.
func NewCompound(name string, children ...Tag) Tag {
	c := NewCompoundMap()
	for _, child := range children {
		c.Set(child)
	}
	return Tag{Name: name, Type: TypeCompound, Compound: c}
}

func NewIntArray(name string, v []int32) Tag {
	return Tag{Name: name, Type: TypeIntArray, Ints: v}
}

func NewLongArray(name string, v []int64) Tag {
	return Tag{Name: name, Type: TypeLongArray, Longs: v}
}

// Len returns the element count of list, compound and array tags.
func (t Tag) Len() int {
	switch t.Type {
	case TypeByteArray:
		return len(t.Bytes)
	case TypeList:
		return len(t.List)
	case TypeCompound:
		return t.Compound.Len()
	case TypeIntArray:
		return len(t.Ints)
	case TypeLongArray:
		return len(t.Longs)
	default:
		return 0
	}
}

func (t Tag) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Name)
}

// Equal reports structural equality including names. Floats compare by bit
// pattern at their wire width so NaN payloads round-trip as equal.
func (t Tag) Equal(o Tag) bool {
	if t.Name != o.Name {
		return false
	}
	return t.EqualPayload(o)
}

// EqualPayload is Equal without comparing the top-level names.
func (t Tag) EqualPayload(o Tag) bool {
	if t.Type != o.Type {
		return false
	}
	switch t.Type {
	case TypeEnd:
		return true
	case TypeByte, TypeShort, TypeInt, TypeLong:
		return t.I64 == o.I64
	case TypeFloat:
		return math.Float32bits(float32(t.F64)) == math.Float32bits(float32(o.F64))
	case TypeDouble:
		return math.Float64bits(t.F64) == math.Float64bits(o.F64)
	case TypeByteArray:
		return bytes.Equal(t.Bytes, o.Bytes)
	case TypeString:
		return t.Str == o.Str
	case TypeList:
		if t.Elem != o.Elem || len(t.List) != len(o.List) {
			return false
		}
		for i := range t.List {
			if !t.List[i].EqualPayload(o.List[i]) {
				return false
			}
		}
		return true
	case TypeCompound:
		return t.Compound.Equal(o.Compound)
	case TypeIntArray:
		return slices.Equal(t.Ints, o.Ints)
	case TypeLongArray:
		return slices.Equal(t.Longs, o.Longs)
	default:
		return false
	}
}
