package nbt

import "fmt"

// TagType is the one-byte type code that prefixes every named tag record.
type TagType uint8

const (
	TypeEnd TagType = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

var typeNames = [...]string{
	TypeEnd:       "TAG_End",
	TypeByte:      "TAG_Byte",
	TypeShort:     "TAG_Short",
	TypeInt:       "TAG_Int",
	TypeLong:      "TAG_Long",
	TypeFloat:     "TAG_Float",
	TypeDouble:    "TAG_Double",
	TypeByteArray: "TAG_Byte_Array",
	TypeString:    "TAG_String",
	TypeList:      "TAG_List",
	TypeCompound:  "TAG_Compound",
	TypeIntArray:  "TAG_Int_Array",
	TypeLongArray: "TAG_Long_Array",
}

// Valid reports whether t is one of the thirteen defined type codes.
func (t TagType) Valid() bool {
	return t <= TypeLongArray
}

func (t TagType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TAG_Unknown(%d)", uint8(t))
	}
	return typeNames[t]
}

// TypeCode returns the wire type code for t.
func TypeCode(t Tag) (byte, error) {
	if !t.Type.Valid() {
		return 0, formatErr(t, ErrUnknownType, "type code %d", uint8(t.Type))
	}
	return byte(t.Type), nil
}

// TypeFromCode maps a wire type code back to its TagType.
func TypeFromCode(code byte) (TagType, error) {
	t := TagType(code)
	if !t.Valid() {
		return 0, &FormatError{Type: t, Err: fmt.Errorf("%w: type code %d", ErrUnknownType, code)}
	}
	return t, nil
}

var typeShortNames = [...]string{
	TypeEnd:       "end",
	TypeByte:      "byte",
	TypeShort:     "short",
	TypeInt:       "int",
	TypeLong:      "long",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeByteArray: "bytes",
	TypeString:    "string",
	TypeList:      "list",
	TypeCompound:  "compound",
	TypeIntArray:  "ints",
	TypeLongArray: "longs",
}

// ShortName returns the lowercase name used by the text formats, e.g. "ints".
func (t TagType) ShortName() string {
	if !t.Valid() {
		return fmt.Sprintf("unknown%d", uint8(t))
	}
	return typeShortNames[t]
}

// ParseTagType is the inverse of ShortName.
func ParseTagType(name string) (TagType, error) {
	for i, n := range typeShortNames {
		if n == name {
			return TagType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
