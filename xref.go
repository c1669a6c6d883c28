package pdfkit

import (
	"strconv"
	"strings"

	"github.com/gsoutade/pdfkit/internal/types"
)

// parseXrefSection implements spec.md §4.3. offset is the byte position
// of the "xref" keyword itself, already consumed by the caller.
func (d *Document) parseXrefSection(offset int64) error {
	d.xrefOffset = offset
	curID := uint32(0)

	for {
		tok1, off1, err := d.p.nextToken(true, false)
		if err != nil {
			return err
		}
		if tok1 == "trailer" {
			break
		}

		tok2, _, err := d.p.nextToken(true, false)
		if err != nil {
			return err
		}

		if len(tok1) == 10 {
			tok3, _, err := d.p.nextToken(true, false)
			if err != nil {
				return err
			}
			offsetVal, err := strconv.ParseInt(tok1, 10, 64)
			if err != nil {
				return offsetErr(ErrInvalidTrailer, off1, "invalid xref offset %q", tok1)
			}
			gen, err := strconv.ParseUint(tok2, 10, 32)
			if err != nil {
				return offsetErr(ErrInvalidTrailer, off1, "invalid xref generation %q", tok2)
			}
			d.xrefTable = append(d.xrefTable, types.XRefEntry{
				ID:     curID,
				Gen:    uint32(gen),
				Offset: offsetVal,
				Used:   tok3 == "n",
			})
			curID++
			continue
		}

		firstID, err := strconv.ParseUint(tok1, 10, 32)
		if err != nil {
			return offsetErr(ErrInvalidTrailer, off1, "invalid xref subsection header %q", tok1)
		}
		curID = uint32(firstID)
		// tok2 is the subsection's entry count; not needed since each
		// subsection's entries are read one at a time until the next
		// header or "trailer".
	}

	return d.parseTrailer()
}

// parseTrailer implements the trailer half of spec.md §4.3: requires
// "<<", merges the dictionary into Document.Trailer (later xref sections
// in the same linear scan overwrite matching keys, mirroring the
// original's reuse of a single persistent trailer dictionary), then
// optionally follows startxref.
func (d *Document) parseTrailer() error {
	tok, offset, err := d.p.nextToken(true, false)
	if err != nil {
		return err
	}
	if tok != "<<" {
		return offsetErr(ErrInvalidTrailer, offset, "expected '<<', got %q", tok)
	}

	dict, err := d.p.parseDictionary(nil)
	if err != nil {
		return err
	}
	for _, k := range dict.Keys() {
		v, _ := dict.Get(k)
		d.Trailer.Set(k, v)
	}

	mark, err := d.src.Tell()
	if err != nil {
		return err
	}

	tok, _, err = d.p.nextToken(true, false)
	if err != nil {
		return err
	}
	if tok != "startxref" {
		// Trailer without xref: not an error, resume from just after it.
		return d.src.Seek(mark)
	}

	return d.startxrefRoutine()
}

// startxrefRoutine implements spec.md §4.3's startxref sub-routine: read
// the xref offset (informational only — the top-level loop walks the
// file linearly rather than jumping to it) and the following "%%EOF",
// tolerating trailing bytes glued onto it.
func (d *Document) startxrefRoutine() error {
	_, offOffset, err := d.p.nextToken(true, false)
	if err != nil {
		return err
	}

	eofTok, eofOffset, err := d.p.nextToken(true, true)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(eofTok, "%%EOF") {
		return offsetErr(ErrInvalidTrailer, offOffset, "expected %%EOF, got %q", eofTok)
	}
	if len(eofTok) > len("%%EOF") {
		return d.src.Seek(eofOffset + int64(len("%%EOF")))
	}
	return nil
}

// reconcileXref implements spec.md §4.3's final step: for every xref
// entry whose (id, generation) matches a parsed Object, copy the used
// flag onto it.
func (d *Document) reconcileXref() {
	for _, entry := range d.xrefTable {
		for _, obj := range d.objects {
			if obj.ID == entry.ID && obj.Gen == entry.Gen {
				obj.Used = entry.Used
				break
			}
		}
	}
}
