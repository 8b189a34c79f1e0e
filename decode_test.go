package nbt

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTripRandomTrees(t *testing.T) {
	for _, order := range []ByteOrder{BigEndian, LittleEndian} {
		for seed := uint64(0); seed < 200; seed++ {
			tree := randomTree(seed)
			enc, err := Marshal(tree, order)
			if err != nil {
				t.Fatalf("%s seed %d: marshal: %v", order, seed, err)
			}
			got, err := Unmarshal(enc, order)
			if err != nil {
				t.Fatalf("%s seed %d: unmarshal: %v", order, seed, err)
			}
			if diff := cmp.Diff(tree, got); diff != "" {
				t.Fatalf("%s seed %d: round trip mismatch (-want +got):\n%s", order, seed, diff)
			}
			if !cmp.Equal(tree.Compound.Names(), got.Compound.Names()) {
				t.Fatalf("%s seed %d: child order changed", order, seed)
			}
		}
	}
}

func TestDecodeScenarios(t *testing.T) {
	got, err := Unmarshal(fromHex(t, "0A 0001 70 03 0001 78 00000001 03 0001 79 00000002 00"), BigEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := NewCompound("p", NewInt("x", 1), NewInt("y", 2))
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got, err = Unmarshal(fromHex(t, "03 0100 6E 01000000"), LittleEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(NewInt("n", 1)) {
		t.Fatalf("little-endian int decoded as %+v", got)
	}

	got, err = Unmarshal(fromHex(t, "09 0001 4C 00 00000000"), BigEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != TypeList || got.Elem != TypeEnd || len(got.List) != 0 {
		t.Fatalf("empty end list decoded as %+v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", io.ErrUnexpectedEOF},
		{"unknown type", "0D 0000", ErrUnknownType},
		{"truncated name", "01 0005 6162", io.ErrUnexpectedEOF},
		{"truncated payload", "03 0000 0000", io.ErrUnexpectedEOF},
		{"missing end", "0A 0000 01 0001 61 05", io.ErrUnexpectedEOF},
		{"negative array", "07 0000 FFFFFFFF", ErrNegativeLength},
		{"negative list", "09 0000 01 80000000", ErrNegativeLength},
		{"unknown list element", "09 0000 0F 00000000", ErrUnknownType},
		{"end list with items", "09 0000 00 00000001", ErrElementType},
		{"hostile array length", "0B 0000 7FFFFFFF 00000001", io.ErrUnexpectedEOF},
		{"bad string bytes", "08 0000 0002 FF41", ErrInvalidString},
		{"trailing data", "01 0000 05 00", ErrTrailingData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal(fromHex(t, tc.input), BigEndian)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	var b bytes.Buffer
	b.Write([]byte{0x0A, 0x00, 0x00})
	for i := 0; i < MaxDepth+5; i++ {
		b.Write([]byte{0x0A, 0x00, 0x00})
	}
	_, err := Unmarshal(b.Bytes(), BigEndian)
	if !errors.Is(err, ErrDepth) {
		t.Fatalf("got %v, want ErrDepth", err)
	}
}

func TestDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, LittleEndian)
	records := []Tag{NewCompound("a", NewString("s", "x")), NewLong("b", 9), NewList("c", TypeFloat, NewFloat("", 0.5))}
	for _, r := range records {
		if err := enc.WriteTag(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	dec := NewDecoder(&buf, LittleEndian)
	for i, want := range records {
		got, err := dec.ReadTag()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !got.Equal(want) {
			t.Fatalf("record %d: got %v", i, got)
		}
	}
	if _, err := dec.ReadTag(); err != io.EOF {
		t.Fatalf("expected io.EOF after last record, got %v", err)
	}
}

func TestReadPayload(t *testing.T) {
	payload, err := MarshalPayload(NewIntArray("", []int32{5, 6}), BigEndian)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := NewDecoder(bytes.NewReader(payload), BigEndian).ReadPayload(TypeIntArray)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !cmp.Equal(got.Ints, []int32{5, 6}) {
		t.Fatalf("got %v", got.Ints)
	}
	if _, err := NewDecoder(bytes.NewReader(nil), BigEndian).ReadPayload(99); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}

func TestDecodeRepeatedNameLastWins(t *testing.T) {
	in := fromHex(t, "0A 0000 01 0001 61 01 01 0001 62 02 01 0001 61 03 00")
	got, err := Unmarshal(in, BigEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.Compound.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	a, _ := got.Compound.Get("a")
	if a.I64 != 3 {
		t.Fatalf("a = %d, want 3", a.I64)
	}
}
