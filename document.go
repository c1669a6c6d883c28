package pdfkit

import (
	"log/slog"
	"os"

	"github.com/gsoutade/pdfkit/internal/source"
	"github.com/gsoutade/pdfkit/internal/types"
)

// Document owns the ordered list of Objects, the trailer dictionary, the
// last-seen xref offset, the reconciled xref table, and the PDF version
// (spec.md §3.4). Construction yields an empty Document; Parse populates
// it from a file, after which Objects may be added, mutated, or marked
// New to drive an incremental Write.
type Document struct {
	file *os.File
	src  *source.Source
	p    *parser

	objects []*types.Object

	Trailer types.Dict

	xrefOffset int64
	xrefTable  []types.XRefEntry

	versionMajor int
	versionMinor int

	log *slog.Logger
}

// New returns an empty Document, ready for AddObject or Parse.
func New() *Document {
	return &Document{
		Trailer: types.NewDictEmpty(),
		log:     slog.Default(),
	}
}

// SetLogger overrides the Document's logger; the default is slog.Default().
func (d *Document) SetLogger(l *slog.Logger) { d.log = l }

// Objects returns the Document's owned objects in parse/insertion order.
func (d *Document) Objects() []*types.Object { return d.objects }

// AddObject appends obj to the Document, marking it New so Write(path,
// true) picks it up in the next incremental update.
func (d *Document) AddObject(obj *types.Object) {
	obj.New = true
	d.objects = append(d.objects, obj)
}

// GetObject looks up an object by (id, generation).
func (d *Document) GetObject(id, gen uint32) (*types.Object, bool) {
	for _, o := range d.objects {
		if o.ID == id && o.Gen == gen {
			return o, true
		}
	}
	return nil, false
}

// Version returns the PDF header's major and minor version digits.
func (d *Document) Version() (major, minor int) { return d.versionMajor, d.versionMinor }

// Parse opens path and reads it into the Document per spec.md §4.4. On
// success, the underlying file descriptor is kept open for the
// Document's lifetime so that Stream Values can copy their bodies
// through on a later Write; call Close when done. On a parse error the
// descriptor is closed before Parse returns, so callers need not (and
// should not) call Close after a failed Parse.
func (d *Document) Parse(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return offsetErr(ErrUnableToOpenFile, 0, "%s: %v", path, err)
	}
	d.file = f
	d.src = source.New(f)
	d.p = newParser(d.src)

	if err := d.parseHeader(); err != nil {
		d.file.Close()
		d.file = nil
		return err
	}
	d.log.Debug("parsed pdf header", slog.Int("major", d.versionMajor), slog.Int("minor", d.versionMinor))

	if err := d.topLevelLoop(); err != nil {
		d.file.Close()
		d.file = nil
		return err
	}

	d.reconcileXref()

	return nil
}

// Close releases the file descriptor opened by Parse, if any.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// parseHeader reads "%PDF-<digit>.<digit>" directly off the byte source,
// bypassing the scanner: the leading '%' would otherwise be swallowed as
// a comment.
func (d *Document) parseHeader() error {
	const sig = "%PDF-"
	for i := 0; i < len(sig); i++ {
		c, eof, err := d.p.sc.readByte(true)
		if err != nil {
			return err
		}
		if eof || c != sig[i] {
			off, _ := d.src.Tell()
			return offsetErr(ErrInvalidHeader, off, "missing %%PDF- signature")
		}
	}

	major, eof, err := d.p.sc.readByte(true)
	if err != nil {
		return err
	}
	if eof || major < '0' || major > '9' {
		off, _ := d.src.Tell()
		return offsetErr(ErrInvalidHeader, off, "invalid major version digit")
	}

	dot, eof, err := d.p.sc.readByte(true)
	if err != nil {
		return err
	}
	if eof || dot != '.' {
		off, _ := d.src.Tell()
		return offsetErr(ErrInvalidHeader, off, "expected '.' in version")
	}

	minor, eof, err := d.p.sc.readByte(true)
	if err != nil {
		return err
	}
	if eof || minor < '0' || minor > '9' {
		off, _ := d.src.Tell()
		return offsetErr(ErrInvalidHeader, off, "invalid minor version digit")
	}

	d.versionMajor = int(major - '0')
	d.versionMinor = int(minor - '0')

	return d.p.sc.consumeLine()
}

// topLevelLoop implements spec.md §4.4 step 4: classify each top-level
// token and dispatch, tolerating exactly one unclassifiable second line
// (an uncommented binary marker some producers emit).
func (d *Document) topLevelLoop() error {
	secondLinePending := true
	for {
		tok, offset, err := d.p.nextToken(false, false)
		if err != nil {
			return err
		}
		if tok == "" {
			return nil
		}

		switch {
		case tok == "xref":
			if err := d.parseXrefSection(offset); err != nil {
				return err
			}
			secondLinePending = false

		case len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9':
			id, err := parseObjectID(tok, offset)
			if err != nil {
				return err
			}
			obj, err := d.p.parseObject(id, offset)
			if err != nil {
				return err
			}
			obj.Used = true
			d.objects = append(d.objects, obj)
			secondLinePending = false

		case tok == "startxref":
			if err := d.startxrefRoutine(); err != nil {
				return err
			}
			secondLinePending = false

		default:
			if secondLinePending {
				// nextToken already consumed through this line's
				// terminator while accumulating the unrecognized
				// token (an uncommented binary marker, typically);
				// nothing further to discard.
				secondLinePending = false
				continue
			}
			return offsetErr(ErrInvalidLine, offset, "unrecognized top-level token %q", tok)
		}
	}
}

func parseObjectID(tok string, offset int64) (uint32, error) {
	v, err := parseNumber(tok, false, offset)
	if err != nil || v.Kind() != types.KindInteger || v.Int() < 0 {
		return 0, offsetErr(ErrInvalidObject, offset, "invalid object id %q", tok)
	}
	return uint32(v.Int()), nil
}
