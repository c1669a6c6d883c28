package types

import "testing"

func TestDictSetGetOverwritesInPlace(t *testing.T) {
	d := NewDictEmpty()
	d.Set("/A", NewInteger(1, false))
	d.Set("/B", NewInteger(2, false))
	d.Set("/A", NewInteger(3, false))

	v, ok := d.Get("/A")
	if !ok || v.Int() != 3 {
		t.Fatalf("got %v ok=%v, want 3", v, ok)
	}
	if got := d.Keys(); len(got) != 2 || got[0] != "/A" || got[1] != "/B" {
		t.Fatalf("got keys %v, want insertion order [/A /B] preserved across overwrite", got)
	}
	if d.Len() != 2 {
		t.Fatalf("got Len %d, want 2", d.Len())
	}
}

func TestDictGetMissingKey(t *testing.T) {
	d := NewDictEmpty()
	if _, ok := d.Get("/Missing"); ok {
		t.Fatal("expected ok=false for missing key")
	}
}

func TestDictGetOnZeroValue(t *testing.T) {
	var d Dict
	if _, ok := d.Get("/A"); ok {
		t.Fatal("expected ok=false on the zero Dict")
	}
}

func TestDictDelete(t *testing.T) {
	d := NewDictEmpty()
	d.Set("/A", NewInteger(1, false))
	d.Set("/B", NewInteger(2, false))
	d.Set("/C", NewInteger(3, false))
	d.Delete("/B")

	if _, ok := d.Get("/B"); ok {
		t.Fatal("expected /B to be gone")
	}
	got := d.Keys()
	if len(got) != 2 || got[0] != "/A" || got[1] != "/C" {
		t.Fatalf("got keys %v, want [/A /C]", got)
	}
	// Deleting reindexes the survivors; verify /C is still reachable.
	v, ok := d.Get("/C")
	if !ok || v.Int() != 3 {
		t.Fatalf("got %v ok=%v after delete-and-reindex, want 3", v, ok)
	}
}

func TestDictDeleteMissingKeyNoop(t *testing.T) {
	d := NewDictEmpty()
	d.Set("/A", NewInteger(1, false))
	d.Delete("/Z")
	if d.Len() != 1 {
		t.Fatalf("got Len %d, want 1 after no-op delete", d.Len())
	}
}

func TestValueConstructorRoundTrips(t *testing.T) {
	if v := NewNull(); v.Kind() != KindNull {
		t.Fatalf("got %v, want Null", v.Kind())
	}
	if v := NewBool(true); v.Kind() != KindBoolean || !v.Bool() {
		t.Fatalf("got %+v, want Boolean true", v)
	}
	if v := NewInteger(-7, true); v.Kind() != KindInteger || v.Int() != -7 || !v.ExplicitSign() {
		t.Fatalf("got %+v, want Integer -7 explicitSign", v)
	}
	if v := NewReal(1.5, false); v.Kind() != KindReal || v.Float() != 1.5 {
		t.Fatalf("got %+v, want Real 1.5", v)
	}
	if v := NewName("/Type"); v.Kind() != KindName || v.NameValue() != "/Type" {
		t.Fatalf("got %+v, want Name /Type", v)
	}
	if v := NewString("hello"); v.Kind() != KindString || v.RawString() != "hello" {
		t.Fatalf("got %+v, want String hello", v)
	}
	if v := NewHexString("4142"); v.Kind() != KindHexString || v.RawString() != "4142" {
		t.Fatalf("got %+v, want HexString 4142", v)
	}
	if v := NewReference(3, 1); v.Kind() != KindReference || v.Ref() != (Ref{ID: 3, Gen: 1}) {
		t.Fatalf("got %+v, want Reference {3 1}", v)
	}
	arr := Array{NewInteger(1, false), NewInteger(2, false)}
	if v := NewArray(arr); v.Kind() != KindArray || len(v.ArrayValue()) != 2 {
		t.Fatalf("got %+v, want Array of length 2", v)
	}
	d := NewDictEmpty()
	d.Set("/K", NewNull())
	if v := NewDict(d); v.Kind() != KindDictionary || v.DictValue().Len() != 1 {
		t.Fatalf("got %+v, want Dictionary of length 1", v)
	}
	sd := StreamData{HasOffsets: true, Start: 0, End: 4}
	if v := NewStream(sd); v.Kind() != KindStream || v.StreamValue().End != 4 {
		t.Fatalf("got %+v, want Stream ending at 4", v)
	}
}

func TestValueEqual(t *testing.T) {
	a := NewArray(Array{NewInteger(1, false), NewName("/X")})
	b := NewArray(Array{NewInteger(1, false), NewName("/X")})
	if !a.Equal(b) {
		t.Fatalf("expected %+v to equal %+v", a, b)
	}
	c := NewArray(Array{NewInteger(2, false), NewName("/X")})
	if a.Equal(c) {
		t.Fatalf("did not expect %+v to equal %+v", a, c)
	}
	if NewInteger(1, false).Equal(NewInteger(1, true)) {
		t.Fatal("explicit-sign should distinguish otherwise-equal integers")
	}
}

func TestDictEqual(t *testing.T) {
	d1 := NewDictEmpty()
	d1.Set("/A", NewInteger(1, false))
	d1.Set("/B", NewInteger(2, false))

	d2 := NewDictEmpty()
	d2.Set("/A", NewInteger(1, false))
	d2.Set("/B", NewInteger(2, false))
	if !d1.Equal(d2) {
		t.Fatalf("expected %+v to equal %+v", d1, d2)
	}

	d3 := NewDictEmpty()
	d3.Set("/B", NewInteger(2, false))
	d3.Set("/A", NewInteger(1, false))
	if d1.Equal(d3) {
		t.Fatal("insertion order differs, dicts should not compare equal")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNull:       "Null",
		KindBoolean:    "Boolean",
		KindInteger:    "Integer",
		KindReal:       "Real",
		KindName:       "Name",
		KindString:     "String",
		KindHexString:  "HexString",
		KindArray:      "Array",
		KindDictionary: "Dictionary",
		KindReference:  "Reference",
		KindStream:     "Stream",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
	if got := Kind(999).String(); got != "Unknown" {
		t.Fatalf("got %q, want Unknown for an out-of-range Kind", got)
	}
}
