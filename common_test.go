package nbt

import (
	"encoding/hex"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

func fromHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

var nameAlphabet = []string{"a", "b", "x", "y", "Level", "é", "€", "\x00", "😀", "_", "9"}

func randomName(r *rand.Rand) string {
	n := r.IntN(6)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(nameAlphabet[r.IntN(len(nameAlphabet))])
	}
	return sb.String()
}

// randomTag builds a well-typed tree of the given type. depth bounds nesting.
func randomTag(r *rand.Rand, name string, typ TagType, depth int) Tag {
	switch typ {
	case TypeByte:
		return NewByte(name, int8(r.IntN(256)-128))
	case TypeShort:
		return NewShort(name, int16(r.IntN(1<<16)-(1<<15)))
	case TypeInt:
		return NewInt(name, int32(r.Uint32()))
	case TypeLong:
		return NewLong(name, int64(r.Uint64()))
	case TypeFloat:
		f := math.Float32frombits(r.Uint32())
		if math.IsNaN(float64(f)) {
			f = float32(math.NaN())
		}
		return NewFloat(name, f)
	case TypeDouble:
		return NewDouble(name, r.NormFloat64()*1e6)
	case TypeByteArray:
		b := make([]byte, r.IntN(16))
		for i := range b {
			b[i] = byte(r.Uint32())
		}
		return NewByteArray(name, b)
	case TypeString:
		return NewString(name, randomName(r))
	case TypeList:
		elem := randomType(r, depth)
		n := r.IntN(4)
		items := make([]Tag, n)
		for i := range items {
			items[i] = randomTag(r, "", elem, depth-1)
		}
		if n == 0 && r.IntN(2) == 0 {
			elem = TypeEnd
		}
		return NewList(name, elem, items...)
	case TypeCompound:
		n := r.IntN(5)
		children := make([]Tag, n)
		for i := range children {
			children[i] = randomTag(r, randomName(r), randomType(r, depth), depth-1)
		}
		return NewCompound(name, children...)
	case TypeIntArray:
		v := make([]int32, r.IntN(8))
		for i := range v {
			v[i] = int32(r.Uint32())
		}
		return NewIntArray(name, v)
	case TypeLongArray:
		v := make([]int64, r.IntN(8))
		for i := range v {
			v[i] = int64(r.Uint64())
		}
		return NewLongArray(name, v)
	default:
		return End()
	}
}

func randomType(r *rand.Rand, depth int) TagType {
	for {
		typ := TagType(1 + r.IntN(int(TypeLongArray)))
		if depth <= 0 && (typ == TypeList || typ == TypeCompound) {
			continue
		}
		return typ
	}
}

func randomTree(seed uint64) Tag {
	r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	return randomTag(r, randomName(r), TypeCompound, 3)
}
