package pdfkit

import (
	"strconv"
	"strings"

	"github.com/gsoutade/pdfkit/internal/source"
	"github.com/gsoutade/pdfkit/internal/types"
)

// parser is the recursive-descent value parser (spec.md §4.2). It turns
// the scanner's token stream into Values and Objects, handling the one
// piece of lookahead the grammar needs: disambiguating "N G R" from two
// adjacent integers.
type parser struct {
	sc  *scanner
	src *source.Source
}

func newParser(src *source.Source) *parser {
	return &parser{sc: newScanner(src), src: src}
}

func (p *parser) nextToken(failOnEOF, preserveComment bool) (string, int64, error) {
	return p.sc.nextToken(failOnEOF, preserveComment)
}

// parseType dispatches on tok per spec.md §4.2.1. obj is the enclosing
// indirect object, needed only so parseStream can look up its Length.
func (p *parser) parseType(tok string, offset int64, obj *types.Object) (types.Value, error) {
	switch {
	case tok == "<<":
		d, err := p.parseDictionary(obj)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewDict(d), nil
	case tok == "[":
		return p.parseArray(obj)
	case tok == "(":
		return p.parseString()
	case tok == "<":
		return p.parseHexString(offset)
	case tok == "stream":
		return p.parseStream(obj)
	case len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9':
		return p.parseNumberOrReference(tok, offset)
	case len(tok) > 0 && tok[0] == '/':
		return types.NewName(tok), nil
	case len(tok) > 0 && (tok[0] == '+' || tok[0] == '-'):
		return parseSignedNumber(tok, offset)
	case len(tok) > 0 && (tok[0] == '0' || tok[0] == '.'):
		return parseNumber(tok, false, offset)
	case tok == "true":
		return types.NewBool(true), nil
	case tok == "false":
		return types.NewBool(false), nil
	case tok == "null":
		return types.NewNull(), nil
	default:
		return types.Value{}, offsetErr(ErrInvalidToken, offset, "invalid token %q", tok)
	}
}

// parseNumber converts tok (already stripped of a leading sign, if any)
// into an Integer or Real value, per spec.md §4.2.3: a token containing
// '.' is Real, else Integer; a leading '.' is normalized to "0.".
func parseNumber(tok string, explicitSign bool, offset int64) (types.Value, error) {
	if strings.Contains(tok, ".") {
		normalized := tok
		if strings.HasPrefix(normalized, ".") {
			normalized = "0" + normalized
		}
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return types.Value{}, offsetErr(ErrInvalidToken, offset, "invalid real %q", tok)
		}
		return types.NewReal(f, explicitSign), nil
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return types.Value{}, offsetErr(ErrInvalidToken, offset, "invalid integer %q", tok)
	}
	return types.NewInteger(i, explicitSign), nil
}

func parseSignedNumber(tok string, offset int64) (types.Value, error) {
	sign := tok[0]
	rest := tok[1:]
	v, err := parseNumber(rest, true, offset)
	if err != nil {
		return types.Value{}, err
	}
	if sign == '-' {
		switch v.Kind() {
		case types.KindInteger:
			return types.NewInteger(-v.Int(), true), nil
		case types.KindReal:
			return types.NewReal(-v.Float(), true), nil
		}
	}
	return v, nil
}

// parseNumberOrReference implements the transactional "N G R" lookahead
// of spec.md §4.2.2. On rollback, the source is seeked back to the point
// immediately after the first integer token so no side effects persist.
func (p *parser) parseNumberOrReference(tok string, offset int64) (types.Value, error) {
	first, err := parseNumber(tok, false, offset)
	if err != nil {
		return types.Value{}, err
	}
	if first.Kind() != types.KindInteger {
		return first, nil
	}

	mark, err := p.src.Tell()
	if err != nil {
		return types.Value{}, err
	}

	tok2, _, err := p.nextToken(false, false)
	if err != nil {
		return types.Value{}, err
	}
	gen, genErr := parseNumber(tok2, false, offset)

	if genErr != nil || gen.Kind() != types.KindInteger {
		if err := p.src.Seek(mark); err != nil {
			return types.Value{}, err
		}
		return first, nil
	}

	tok3, _, err := p.nextToken(false, false)
	if err != nil {
		return types.Value{}, err
	}
	if tok3 != "R" {
		if err := p.src.Seek(mark); err != nil {
			return types.Value{}, err
		}
		return first, nil
	}

	return types.NewReference(uint32(first.Int()), uint32(gen.Int())), nil
}

func (p *parser) parseArray(obj *types.Object) (types.Value, error) {
	var arr types.Array
	for {
		tok, offset, err := p.nextToken(true, false)
		if err != nil {
			return types.Value{}, err
		}
		if tok == "]" {
			break
		}
		v, err := p.parseType(tok, offset, obj)
		if err != nil {
			return types.Value{}, err
		}
		arr = append(arr, v)
	}
	return types.NewArray(arr), nil
}

// parseString reads a literal string body per spec.md §4.2.5: nested
// parens are balanced by a counter, and a backslash toggles an escaped
// flag so that a doubled backslash resets it.
func (p *parser) parseString() (types.Value, error) {
	var buf []byte
	depth := 1
	escaped := false
	for {
		c, eof, err := p.sc.readByte(false)
		if err != nil {
			return types.Value{}, err
		}
		if eof {
			break
		}
		if c == '(' && !escaped {
			depth++
		} else if c == ')' && !escaped {
			depth--
			if depth == 0 {
				break
			}
		}
		if c == '\\' && escaped {
			escaped = false
		} else {
			escaped = c == '\\'
		}
		buf = append(buf, c)
	}
	return types.NewString(string(buf)), nil
}

// parseHexString reads raw characters up to '>' per spec.md §4.2.6.
func (p *parser) parseHexString(offset int64) (types.Value, error) {
	var buf []byte
	for {
		c, eof, err := p.sc.readByte(false)
		if err != nil {
			return types.Value{}, err
		}
		if eof || c == '>' {
			break
		}
		buf = append(buf, c)
	}
	if len(buf)%2 != 0 {
		return types.Value{}, offsetErr(ErrInvalidHexString, offset, "odd-length hex string")
	}
	return types.NewHexString(string(buf)), nil
}

// parseDictionary reads key/value pairs until '>>' per spec.md §4.2.7. A
// bare key immediately followed by '>>' is bound to Null.
func (p *parser) parseDictionary(obj *types.Object) (types.Dict, error) {
	dict := types.NewDictEmpty()
	for {
		tok, offset, err := p.nextToken(true, false)
		if err != nil {
			return types.Dict{}, err
		}
		if tok == ">>" {
			break
		}
		if len(tok) == 0 || tok[0] != '/' {
			return types.Dict{}, offsetErr(ErrInvalidName, offset, "expected name key, got %q", tok)
		}
		key := types.Name(tok)

		vtok, voffset, err := p.nextToken(true, false)
		if err != nil {
			return types.Dict{}, err
		}
		if vtok == ">>" {
			dict.Set(key, types.NewNull())
			break
		}
		v, err := p.parseType(vtok, voffset, obj)
		if err != nil {
			return types.Dict{}, err
		}
		dict.Set(key, v)
	}
	return dict, nil
}

// parseStream implements the two-strategy body location of spec.md
// §4.2.8: a fast O(1) jump when Length is a direct Integer and no Filter
// is present, else a scan for the literal "endstream".
func (p *parser) parseStream(obj *types.Object) (types.Value, error) {
	start, err := p.src.Tell()
	if err != nil {
		return types.Value{}, err
	}
	if obj == nil {
		return types.Value{}, offsetErr(ErrInvalidStream, start, "stream outside an object body")
	}

	length, ok := obj.Dict.Get("/Length")
	if !ok {
		return types.Value{}, offsetErr(ErrInvalidStream, start, "missing /Length")
	}

	_, hasFilter := obj.Dict.Get("/Filter")
	if !hasFilter && length.Kind() == types.KindInteger {
		end := start + length.Int()
		if err := p.src.Seek(end); err == nil {
			tok, _, err := p.nextToken(false, false)
			if err == nil && tok == "endstream" {
				return types.NewStream(types.StreamData{
					Dict: obj.Dict, HasOffsets: true, Start: start, End: end,
				}), nil
			}
		}
		if err := p.src.Seek(start); err != nil {
			return types.Value{}, err
		}
	}

	end, err := p.scanForEndstream(start)
	if err != nil {
		return types.Value{}, err
	}
	return types.NewStream(types.StreamData{
		Dict: obj.Dict, HasOffsets: true, Start: start, End: end,
	}), nil
}

const streamScanChunk = 4096

// scanForEndstream implements the fallback path: read in fixed-size
// chunks looking for the literal bytes "endstream", positioning the
// source just after the match and reporting the stream body's end
// offset — one byte before "endstream" itself, trimming the EOL that
// precedes it so the body matches what the fast /Length-jump path would
// have captured (original_source's parseStream: `endOffset = matchStart
// - 1`).
func (p *parser) scanForEndstream(start int64) (int64, error) {
	const needle = "endstream"
	pos := start
	var carry []byte
	for {
		buf := make([]byte, streamScanChunk)
		n := 0
		for n < len(buf) {
			c, eof, err := p.sc.readByte(false)
			if err != nil {
				return 0, err
			}
			if eof {
				break
			}
			buf[n] = c
			n++
		}
		if n == 0 && len(carry) == 0 {
			return 0, offsetErr(ErrInvalidStream, start, "endstream not found")
		}
		window := append(carry, buf[:n]...)
		if idx := strings.Index(string(window), needle); idx >= 0 {
			matchStartInWindow := idx
			// matchStart is absolute offset of "endstream" in the file.
			matchStart := pos - int64(len(carry)) + int64(matchStartInWindow)
			afterMatch := matchStart + int64(len(needle))
			if err := p.src.Seek(afterMatch); err != nil {
				return 0, err
			}
			return matchStart - 1, nil
		}
		if n == 0 {
			return 0, offsetErr(ErrInvalidStream, start, "endstream not found")
		}
		pos += int64(n)
		if len(window) > len(needle)-1 {
			carry = window[len(window)-(len(needle)-1):]
		} else {
			carry = window
		}
	}
}

// parseObject implements §4.2.9: reads generation and the literal "obj",
// then dispatches each body token until "endobj".
func (p *parser) parseObject(id uint32, offset int64) (*types.Object, error) {
	genTok, genOffset, err := p.nextToken(true, false)
	if err != nil {
		return nil, err
	}
	gen, err := strconv.ParseUint(genTok, 10, 32)
	if err != nil {
		return nil, offsetErr(ErrInvalidObject, genOffset, "invalid generation %q", genTok)
	}

	objTok, objOffset, err := p.nextToken(true, false)
	if err != nil {
		return nil, err
	}
	if objTok != "obj" {
		return nil, offsetErr(ErrInvalidObject, objOffset, "expected 'obj', got %q", objTok)
	}

	obj := &types.Object{ID: id, Gen: uint32(gen), Offset: offset, Dict: types.NewDictEmpty()}

	for {
		tok, toffset, err := p.nextToken(true, false)
		if err != nil {
			return nil, err
		}
		if tok == "endobj" {
			break
		}
		if tok == "<<" {
			d, err := p.parseDictionary(obj)
			if err != nil {
				return nil, err
			}
			obj.Dict = d
			continue
		}
		if len(tok) > 0 && tok[0] >= '1' && tok[0] <= '9' {
			v, err := parseNumber(tok, false, toffset)
			if err != nil || v.Kind() != types.KindInteger {
				return nil, offsetErr(ErrInvalidObject, toffset, "invalid indirect offset %q", tok)
			}
			obj.IndirectOffset = v.Int()
			obj.HasIndirectOffset = true
			continue
		}
		v, err := p.parseType(tok, toffset, obj)
		if err != nil {
			return nil, err
		}
		obj.Data = append(obj.Data, v)
	}

	return obj, nil
}
