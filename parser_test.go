package pdfkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gsoutade/pdfkit/internal/source"
	"github.com/gsoutade/pdfkit/internal/types"
)

func newTestParser(data string) *parser {
	return newParser(source.New(bytes.NewReader([]byte(data))))
}

func TestParseLeadingDotReal(t *testing.T) {
	p := newTestParser(".5")
	tok, offset, err := p.nextToken(true, false)
	if err != nil {
		t.Fatalf("nextToken: %v", err)
	}
	v, err := p.parseType(tok, offset, nil)
	if err != nil {
		t.Fatalf("parseType: %v", err)
	}
	if v.Kind() != types.KindReal || v.Float() != 0.5 {
		t.Fatalf("got %v %v, want Real 0.5", v.Kind(), v.Float())
	}
}

func TestParseNumberOrReference(t *testing.T) {
	p := newTestParser("1 0 R")
	tok, offset, err := p.nextToken(true, false)
	if err != nil {
		t.Fatalf("nextToken: %v", err)
	}
	v, err := p.parseType(tok, offset, nil)
	if err != nil {
		t.Fatalf("parseType: %v", err)
	}
	if v.Kind() != types.KindReference {
		t.Fatalf("got %v, want Reference", v.Kind())
	}
	if r := v.Ref(); r.ID != 1 || r.Gen != 0 {
		t.Fatalf("got %+v, want {1 0}", r)
	}
}

func TestParseNumberOrReferenceRollback(t *testing.T) {
	p := newTestParser("1 0 X")
	tok, offset, err := p.nextToken(true, false)
	if err != nil {
		t.Fatalf("nextToken: %v", err)
	}
	v, err := p.parseType(tok, offset, nil)
	if err != nil {
		t.Fatalf("parseType: %v", err)
	}
	if v.Kind() != types.KindInteger || v.Int() != 1 {
		t.Fatalf("got %v %v, want Integer 1", v.Kind(), v.Int())
	}
	next, _, err := p.nextToken(true, false)
	if err != nil {
		t.Fatalf("nextToken after rollback: %v", err)
	}
	if next != "0" {
		t.Fatalf("cursor after rollback: got %q, want %q", next, "0")
	}
}

func TestParseStringNestedParens(t *testing.T) {
	p := newTestParser("((ab)(cd)))")
	tok, _, err := p.nextToken(true, false)
	if err != nil || tok != "(" {
		t.Fatalf("expected opening paren token, got %q err %v", tok, err)
	}
	v, err := p.parseString()
	if err != nil {
		t.Fatalf("parseString: %v", err)
	}
	if v.RawString() != "(ab)(cd)" {
		t.Fatalf("got %q, want %q", v.RawString(), "(ab)(cd)")
	}
}

func TestParseHexStringOddLength(t *testing.T) {
	p := newTestParser("abc>")
	_, err := p.parseHexString(0)
	if err == nil {
		t.Fatal("expected error for odd-length hex string")
	}
}

func TestParseDictionaryBareKey(t *testing.T) {
	p := newTestParser("/A>>")
	dict, err := p.parseDictionary(nil)
	if err != nil {
		t.Fatalf("parseDictionary: %v", err)
	}
	v, ok := dict.Get("/A")
	if !ok || v.Kind() != types.KindNull {
		t.Fatalf("got %v %v, want Null present", v.Kind(), ok)
	}
}

func TestParseArrayMixedValues(t *testing.T) {
	p := newTestParser("+1 -2 3.5 /Name (s) <4142>]")
	v, err := p.parseArray(nil)
	if err != nil {
		t.Fatalf("parseArray: %v", err)
	}

	want := types.NewArray(types.Array{
		types.NewInteger(1, true),
		types.NewInteger(-2, true),
		types.NewReal(3.5, false),
		types.NewName("/Name"),
		types.NewString("s"),
		types.NewHexString("4142"),
	})
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("parsed array mismatch (-want +got):\n%s", diff)
	}
}

func TestParseObjectWithStreamLengthFastPath(t *testing.T) {
	p := newTestParser("1 0 obj<</Length 3>>stream\nabc\nendstream\nendobj\n")
	tok, offset, err := p.nextToken(true, false)
	if err != nil || tok != "1" {
		t.Fatalf("expected leading object id token, got %q err %v", tok, err)
	}
	obj, err := p.parseObject(1, offset)
	if err != nil {
		t.Fatalf("parseObject: %v", err)
	}
	if obj.ID != 1 || obj.Gen != 0 {
		t.Fatalf("got id=%d gen=%d", obj.ID, obj.Gen)
	}
	if len(obj.Data) != 1 || obj.Data[0].Kind() != types.KindStream {
		t.Fatalf("expected single Stream value, got %+v", obj.Data)
	}
	sd := obj.Data[0].StreamValue()
	if sd.End-sd.Start != 3 {
		t.Fatalf("got stream length %d, want 3", sd.End-sd.Start)
	}
}

func TestParseObjectStreamFallbackScan(t *testing.T) {
	// /Length present but not a direct Integer, forcing the
	// endstream-scan fallback.
	p := newTestParser("1 0 obj<</Length /X>>stream\nabc\nendstream\nendobj\n")
	tok, offset, err := p.nextToken(true, false)
	if err != nil || tok != "1" {
		t.Fatalf("expected leading object id token, got %q err %v", tok, err)
	}
	obj, err := p.parseObject(1, offset)
	if err != nil {
		t.Fatalf("parseObject: %v", err)
	}
	sd := obj.Data[0].StreamValue()
	if sd.End-sd.Start != 3 { // "abc", the EOL before "endstream" is trimmed
		t.Fatalf("got stream length %d, want 3", sd.End-sd.Start)
	}
}

func TestParseObjectStreamMissingLengthIsInvalid(t *testing.T) {
	// No /Length entry at all: spec.md §7 and the original parser both
	// require a hard error here, with no scan-for-endstream fallback.
	p := newTestParser("1 0 obj<<>>stream\nabc\nendstream\nendobj\n")
	tok, offset, err := p.nextToken(true, false)
	if err != nil || tok != "1" {
		t.Fatalf("expected leading object id token, got %q err %v", tok, err)
	}
	if _, err := p.parseObject(1, offset); !errors.Is(err, ErrInvalidStream) {
		t.Fatalf("got err %v, want ErrInvalidStream", err)
	}
}

func TestParseObjectIndirectData(t *testing.T) {
	p := newTestParser("2 0 obj\n[+1 -2 3.5 /Name (s) <4142>]\nendobj\n")
	tok, offset, err := p.nextToken(true, false)
	if err != nil || tok != "2" {
		t.Fatalf("expected leading object id token, got %q err %v", tok, err)
	}
	obj, err := p.parseObject(2, offset)
	if err != nil {
		t.Fatalf("parseObject: %v", err)
	}
	if len(obj.Data) != 1 || obj.Data[0].Kind() != types.KindArray {
		t.Fatalf("expected single Array value, got %+v", obj.Data)
	}
	if len(obj.Data[0].ArrayValue()) != 6 {
		t.Fatalf("got %d elements, want 6", len(obj.Data[0].ArrayValue()))
	}
}
