package pdfkit

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gsoutade/pdfkit/internal/types"
)

// Write emits the Document either as a full PDF (update=false) or as an
// incremental update appended to path (update=true), per spec.md §4.5.
func (d *Document) Write(path string, update bool) error {
	if update {
		return d.writeIncremental(path)
	}
	return d.writeFull(path)
}

// writeFull implements spec.md §4.5.2.
func (d *Document) writeFull(path string) error {
	var buf bytes.Buffer

	major, minor := d.versionMajor, d.versionMinor
	if major == 0 && minor == 0 {
		major, minor = 1, 4
	}
	fmt.Fprintf(&buf, "%%PDF-%d.%d\r%%\xE2\xE3\xCF\xD3\r\n", major, minor)

	offsets := make([]int64, len(d.objects))
	for i, obj := range d.objects {
		offsets[i] = int64(buf.Len())
		ob, err := d.objectBytes(obj)
		if err != nil {
			return err
		}
		buf.Write(ob)
	}

	xrefStart := int64(buf.Len())
	buf.WriteString("xref\n")
	buf.WriteString("0 1\n0000000000 65535 f\r\n")
	for i, obj := range d.objects {
		flag := byte('n')
		if !obj.Used {
			flag = 'f'
		}
		fmt.Fprintf(&buf, "%d 1\n%010d %05d %c\r\n", obj.ID, offsets[i], obj.Gen, flag)
	}

	d.Trailer.Delete("/Prev")
	d.Trailer.Delete("/XRefStm")
	d.Trailer.Set("/Size", types.NewInteger(int64(len(d.objects)+1), false))

	buf.WriteString("trailer\n")
	db, err := d.dictBytes(d.Trailer)
	if err != nil {
		return err
	}
	buf.Write(db)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefStart)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return offsetErr(ErrUnableToOpenFile, 0, "%s: %v", path, err)
	}

	d.xrefOffset = xrefStart
	for _, obj := range d.objects {
		obj.New = false
	}
	d.log.Debug("wrote full pdf", slog.String("path", path), slog.Int("objects", len(d.objects)))
	return nil
}

// writeIncremental implements spec.md §4.5.3: appends only New objects to
// path, followed by a single xref section covering just them and a
// trailer chained via Prev to the previous xref.
func (d *Document) writeIncremental(path string) error {
	var newObjs []*types.Object
	for _, obj := range d.objects {
		if obj.New {
			newObjs = append(newObjs, obj)
		}
	}
	if len(newObjs) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return offsetErr(ErrUnableToOpenFile, 0, "%s: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	base := info.Size()

	var buf bytes.Buffer
	buf.WriteByte('\r')

	offsets := make([]int64, len(newObjs))
	for i, obj := range newObjs {
		offsets[i] = base + int64(buf.Len())
		ob, err := d.objectBytes(obj)
		if err != nil {
			return err
		}
		buf.Write(ob)
	}

	xrefStart := base + int64(buf.Len())
	buf.WriteString("xref\n")
	for i, obj := range newObjs {
		flag := byte('n')
		if !obj.Used {
			flag = 'f'
		}
		fmt.Fprintf(&buf, "%d 1\n%010d %05d %c\r\n", obj.ID, offsets[i], obj.Gen, flag)
	}

	d.Trailer.Delete("/Prev")
	d.Trailer.Set("/Prev", types.NewInteger(d.xrefOffset, false))

	buf.WriteString("trailer\n")
	db, err := d.dictBytes(d.Trailer)
	if err != nil {
		return err
	}
	buf.Write(db)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefStart)

	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}

	d.xrefOffset = xrefStart
	for _, obj := range newObjs {
		obj.New = false
	}
	d.log.Debug("wrote incremental update", slog.String("path", path), slog.Int("objects", len(newObjs)))
	return nil
}

// objectBytes serializes one indirect object per spec.md §4.5.1.
func (d *Document) objectBytes(obj *types.Object) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", obj.ID, obj.Gen)

	if obj.HasIndirectOffset {
		fmt.Fprintf(&buf, " %d\n", obj.IndirectOffset)
	} else {
		db, err := d.dictBytes(obj.Dict)
		if err != nil {
			return nil, err
		}
		buf.Write(db)
		for _, v := range obj.Data {
			vb, err := d.valueBytes(v)
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
	}

	buf.WriteString("endobj\n")
	return buf.Bytes(), nil
}

// dictBytes serializes a Dictionary per spec.md §4.5.1: "<<" then, for
// each entry in insertion order, the key (already slash-prefixed) and
// the value's self-delimiting form, closed by ">>\n".
func (d *Document) dictBytes(dict types.Dict) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<<")
	for _, k := range dict.Keys() {
		v, _ := dict.Get(k)
		buf.WriteString(string(k))
		vb, err := d.valueBytes(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteString(">>\n")
	return buf.Bytes(), nil
}

// arrayBytes serializes an Array. A separator space is inserted before
// every element after the first; Integer/Real/Boolean/Null/Reference
// elements also carry their own leading space, matching the source
// writer's behavior of never special-casing numeric runs inside arrays.
func (d *Document) arrayBytes(arr types.Array) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for _, elem := range arr {
		eb, err := d.valueBytes(elem)
		if err != nil {
			return nil, err
		}
		if buf.Len() > 1 {
			buf.WriteByte(' ')
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// valueBytes serializes a single Value in its self-delimiting or
// leading-space-prefixed form (spec.md §4.5.1, §3.1).
func (d *Document) valueBytes(v types.Value) ([]byte, error) {
	switch v.Kind() {
	case types.KindNull:
		return []byte(" null"), nil
	case types.KindBoolean:
		if v.Bool() {
			return []byte(" true"), nil
		}
		return []byte(" false"), nil
	case types.KindInteger:
		sign := ""
		if v.ExplicitSign() && v.Int() >= 0 {
			sign = "+"
		}
		return []byte(fmt.Sprintf(" %s%d", sign, v.Int())), nil
	case types.KindReal:
		sign := ""
		if v.ExplicitSign() && v.Float() >= 0 {
			sign = "+"
		}
		return []byte(" " + sign + strconv.FormatFloat(v.Float(), 'f', -1, 64)), nil
	case types.KindName:
		return []byte(v.NameValue()), nil
	case types.KindString:
		return []byte("(" + v.RawString() + ")"), nil
	case types.KindHexString:
		return []byte("<" + v.RawString() + ">"), nil
	case types.KindReference:
		r := v.Ref()
		return []byte(fmt.Sprintf(" %d %d R", r.ID, r.Gen)), nil
	case types.KindArray:
		return d.arrayBytes(v.ArrayValue())
	case types.KindDictionary:
		return d.dictBytes(v.DictValue())
	case types.KindStream:
		return d.streamBytes(v.StreamValue())
	default:
		return nil, fmt.Errorf("pdfkit: cannot serialize value of kind %v", v.Kind())
	}
}

// streamBytes copies a Stream's body through verbatim (spec.md §4.6):
// bytes from the source file for a parsed stream, or an owned buffer for
// one built in memory.
func (d *Document) streamBytes(sd types.StreamData) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("stream\n")
	if sd.HasOffsets {
		if d.src == nil {
			return nil, fmt.Errorf("pdfkit: stream references a source file but Document has none open")
		}
		n := sd.End - sd.Start
		body := make([]byte, n)
		if err := d.src.ReadAt(body, sd.Start); err != nil {
			return nil, err
		}
		buf.Write(body)
	} else {
		buf.Write(sd.Owned)
	}
	buf.WriteString("\nendstream")
	return buf.Bytes(), nil
}
