// Package types holds the PDF object grammar's data model: the tagged
// union of syntactic values, the indirect object that wraps them, and the
// cross-reference entry that locates one in a file.
package types

import "bytes"

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindName
	KindString
	KindHexString
	KindArray
	KindDictionary
	KindReference
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindName:
		return "Name"
	case KindString:
		return "String"
	case KindHexString:
		return "HexString"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	case KindReference:
		return "Reference"
	case KindStream:
		return "Stream"
	}
	return "Unknown"
}

// Ref names an indirect object by (id, generation). It is a value type:
// it does not own the object it names, only identifies it.
type Ref struct {
	ID  uint32
	Gen uint32
}

// StreamData is the payload of a Value of kind Stream: a dictionary plus
// an opaque byte body that is either backed by offsets into a source file
// (a parsed stream, bytes not yet materialized) or an owned buffer (a
// stream built in memory).
type StreamData struct {
	Dict Dict

	// HasOffsets is true when Start/End locate the body in the source
	// file the Value's owning Document was parsed from.
	HasOffsets bool
	Start      int64
	End        int64

	// Owned holds the body directly for streams constructed by callers;
	// mutually exclusive with HasOffsets.
	Owned []byte
}

// Value is a single PDF syntactic value. The zero Value is a PDF null.
type Value struct {
	kind Kind

	boolVal bool
	intVal  int64
	realVal float64

	// explicitSign records whether the input used a leading '+' or '-'
	// on an Integer/Real; the writer uses it to emit a '+' before a
	// non-negative value.
	explicitSign bool

	// name holds the Name payload, leading '/' included.
	name string

	// str holds the raw bytes of a String or HexString.
	str string

	arr  Array
	dict Dict
	ref  Ref
	strm StreamData
}

// Array is an ordered sequence of Values.
type Array []Value

// dictEntry preserves insertion order alongside the mapping.
type dictEntry struct {
	key Name
	val Value
}

// Dict is an ordered, unique-keyed mapping from Name to Value. The zero
// Dict is empty and ready to use.
type Dict struct {
	entries []dictEntry
	index   map[Name]int
}

// Name is a PDF name, stored with its leading slash.
type Name string

func NewNull() Value { return Value{kind: KindNull} }

func NewBool(b bool) Value { return Value{kind: KindBoolean, boolVal: b} }

func NewInteger(v int64, explicitSign bool) Value {
	return Value{kind: KindInteger, intVal: v, explicitSign: explicitSign}
}

func NewReal(v float64, explicitSign bool) Value {
	return Value{kind: KindReal, realVal: v, explicitSign: explicitSign}
}

// NewName expects name to already carry its leading '/'.
func NewName(name string) Value {
	return Value{kind: KindName, name: name}
}

func NewString(raw string) Value {
	return Value{kind: KindString, str: raw}
}

func NewHexString(raw string) Value {
	return Value{kind: KindHexString, str: raw}
}

func NewArray(v Array) Value {
	return Value{kind: KindArray, arr: v}
}

func NewDict(d Dict) Value {
	return Value{kind: KindDictionary, dict: d}
}

func NewReference(id, gen uint32) Value {
	return Value{kind: KindReference, ref: Ref{ID: id, Gen: gen}}
}

func NewStream(s StreamData) Value {
	return Value{kind: KindStream, strm: s}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool          { return v.boolVal }
func (v Value) Int() int64          { return v.intVal }
func (v Value) Float() float64      { return v.realVal }
func (v Value) ExplicitSign() bool  { return v.explicitSign }
func (v Value) NameValue() string   { return v.name }
func (v Value) RawString() string   { return v.str }
func (v Value) ArrayValue() Array   { return v.arr }
func (v Value) DictValue() Dict     { return v.dict }
func (v Value) Ref() Ref            { return v.ref }
func (v Value) StreamValue() StreamData { return v.strm }

// Equal reports whether v and other hold the same PDF value. It exists
// so that github.com/google/go-cmp/cmp can compare Values from outside
// this package without reflecting into unexported fields: cmp prefers a
// type's own Equal method over struct reflection.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.boolVal == other.boolVal
	case KindInteger:
		return v.intVal == other.intVal && v.explicitSign == other.explicitSign
	case KindReal:
		return v.realVal == other.realVal && v.explicitSign == other.explicitSign
	case KindName:
		return v.name == other.name
	case KindString, KindHexString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		return v.dict.Equal(other.dict)
	case KindReference:
		return v.ref == other.ref
	case KindStream:
		return v.strm.Dict.Equal(other.strm.Dict) &&
			v.strm.HasOffsets == other.strm.HasOffsets &&
			v.strm.Start == other.strm.Start &&
			v.strm.End == other.strm.End &&
			bytes.Equal(v.strm.Owned, other.strm.Owned)
	}
	return false
}

// NewDictEmpty returns an empty, ready-to-use Dict.
func NewDictEmpty() Dict {
	return Dict{index: make(map[Name]int)}
}

// Set inserts or overwrites key's value, preserving the position of the
// first insertion (later inserts of the same key overwrite in place,
// matching spec.md's "later insert of the same key overwrites the
// previous value").
func (d *Dict) Set(key Name, val Value) {
	if d.index == nil {
		d.index = make(map[Name]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].val = val
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, val: val})
}

// Get returns the value at key and whether it was present.
func (d Dict) Get(key Name) (Value, bool) {
	if d.index == nil {
		return Value{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].val, true
}

// Delete removes key if present.
func (d *Dict) Delete(key Name) {
	if d.index == nil {
		return
	}
	i, ok := d.index[key]
	if !ok {
		return
	}
	delete(d.index, key)
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	for k, idx := range d.index {
		if idx > i {
			d.index[k] = idx - 1
		}
	}
}

// Keys returns the keys in insertion order.
func (d Dict) Keys() []Name {
	keys := make([]Name, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Len reports the number of entries.
func (d Dict) Len() int { return len(d.entries) }

// Equal reports whether d and other hold the same keys, in the same
// order, bound to equal Values (see Value.Equal).
func (d Dict) Equal(other Dict) bool {
	if d.Len() != other.Len() {
		return false
	}
	keys, okeys := d.Keys(), other.Keys()
	for i, k := range keys {
		if k != okeys[i] {
			return false
		}
		v, _ := d.Get(k)
		ov, _ := other.Get(okeys[i])
		if !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Object is an indirect PDF object: `N G obj ... endobj`.
type Object struct {
	ID  uint32
	Gen uint32

	// Offset is the object body's byte offset in the source file, for
	// objects that were parsed rather than constructed.
	Offset int64

	Dict Dict
	Data []Value

	// IndirectOffset is set when the object body is a bare integer (an
	// unresolved object-stream reference); when set, Dict is empty and
	// Data is nil.
	IndirectOffset    int64
	HasIndirectOffset bool

	// Used mirrors the xref table's n/f flag.
	Used bool

	// New marks objects added after Parse, driving incremental writes.
	New bool
}

// XRefEntry is one row of a cross-reference (sub)section.
type XRefEntry struct {
	ID     uint32
	Gen    uint32
	Offset int64
	Used   bool
}
