package nbt

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromJSON(t *testing.T) {
	input := []byte(`{
		"name": "Steve",
		"pos": [1.5, 64, -2],
		"health": 20,
		"seed": 3000000000,
		"onGround": true,
		"ids": [1, 2, 3],
		"mixed": [1, 5000000000],
		"skin": "b64:AAEC",
		"inventory": [{"id": "stone", "count": 3}, {"id": "dirt", "count": 1}],
		"tags": [],
		"nested": {"z": {}, "a": "first"}
	}`)
	got, err := FromJSON("root", input)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	want := NewCompound("root",
		NewString("name", "Steve"),
		NewList("pos", TypeDouble, NewDouble("", 1.5), NewDouble("", 64), NewDouble("", -2)),
		NewInt("health", 20),
		NewLong("seed", 3000000000),
		NewByte("onGround", 1),
		NewList("ids", TypeInt, NewInt("", 1), NewInt("", 2), NewInt("", 3)),
		NewList("mixed", TypeLong, NewLong("", 1), NewLong("", 5000000000)),
		NewByteArray("skin", []byte{0, 1, 2}),
		NewList("inventory", TypeCompound,
			NewCompound("", NewString("id", "stone"), NewInt("count", 3)),
			NewCompound("", NewString("id", "dirt"), NewInt("count", 1)),
		),
		NewList("tags", TypeEnd),
		NewCompound("nested", NewCompound("z"), NewString("a", "first")),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Compound.Names(), got.Compound.Names()); diff != "" {
		t.Fatalf("key order (-want +got):\n%s", diff)
	}
}

func TestFromJSONScalarRoot(t *testing.T) {
	got, err := FromJSON("v", []byte(` "hi" `))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if !got.Equal(NewString("v", "hi")) {
		t.Fatalf("got %+v", got)
	}
	got, err = FromJSON("n", []byte(`7`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if !got.Equal(NewInt("n", 7)) {
		t.Fatalf("got %+v", got)
	}
}

func TestFromJSONErrors(t *testing.T) {
	for _, in := range []string{``, `null`, `{"a": null}`, `[1, "x"]`, `{"a": [true, 1]}`, `{"a":`} {
		if _, err := FromJSON("", []byte(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestToJSON(t *testing.T) {
	tree := NewCompound("ignored",
		NewByte("b", -1),
		NewFloat("f", 0.5),
		NewDouble("d", 2),
		NewString("s", "quote\" nl\n é"),
		NewByteArray("raw", []byte{0, 1, 2}),
		NewIntArray("ia", []int32{1, -2}),
		NewLongArray("la", nil),
		NewList("l", TypeShort, NewShort("", 3)),
		NewCompound("c"),
	)
	got, err := ToJSON(tree)
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	want := `{"b":-1,"f":0.5,"d":2.0,"s":"quote\" nl\n é","raw":"b64:AAEC","ia":[1,-2],"la":[],"l":[3],"c":{}}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if _, err := ToJSON(NewDouble("", math.Inf(1))); err == nil {
		t.Fatalf("expected error for infinity")
	}
}
