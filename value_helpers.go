package nbt

import (
	"math"
	"strconv"
)

// AsInt64 returns the value of an integer-typed tag. Floating payloads are
// truncated when they fit in an int64; strings are parsed.
func (t Tag) AsInt64() (int64, bool) {
	switch t.Type {
	case TypeByte, TypeShort, TypeInt, TypeLong:
		return t.I64, true
	case TypeFloat, TypeDouble:
		if math.IsNaN(t.F64) || math.IsInf(t.F64, 0) {
			return 0, false
		}
		if t.F64 < math.MinInt64 || t.F64 >= math.MaxInt64 {
			return 0, false
		}
		return int64(t.F64), true
	case TypeString:
		v, err := strconv.ParseInt(t.Str, 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// AsFloat64 returns the value of any numeric tag as a float64.
func (t Tag) AsFloat64() (float64, bool) {
	switch t.Type {
	case TypeFloat, TypeDouble:
		return t.F64, true
	case TypeByte, TypeShort, TypeInt, TypeLong:
		return float64(t.I64), true
	case TypeString:
		v, err := strconv.ParseFloat(t.Str, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// AsBool reads the Byte convention for booleans: zero is false.
func (t Tag) AsBool() (bool, bool) {
	if t.Type != TypeByte {
		return false, false
	}
	return t.I64 != 0, true
}

// Path follows compound child names from t and returns the tag found.
func (t Tag) Path(names ...string) (Tag, bool) {
	cur := t
	for _, name := range names {
		if cur.Type != TypeCompound {
			return Tag{}, false
		}
		next, ok := cur.Compound.Get(name)
		if !ok {
			return Tag{}, false
		}
		cur = next
	}
	return cur, true
}
