package pdfkit

import (
	"io"

	"github.com/gsoutade/pdfkit/internal/source"
)

// scanner produces the next delimited token from a byte source, honoring
// PDF delimiter, whitespace, and comment rules (spec.md §4.1). It knows
// nothing about the grammar above the token level; that's the parser's
// job.
type scanner struct {
	src *source.Source
}

func newScanner(src *source.Source) *scanner {
	return &scanner{src: src}
}

func isLeadingWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\r', ' ':
		return true
	}
	return false
}

// midTokenPushback are bytes that end an in-progress token and are seeked
// back over so the next call sees them again. Includes plain space/tab
// alongside the structural delimiters, matching uPDFParser's nextToken.
func midTokenPushback(c byte) bool {
	switch c {
	case ' ', '\t', '<', '>', '[', ']', '(', ')', '/':
		return true
	}
	return false
}

func isLineTerminator(c byte) bool {
	return c == '\n' || c == '\r'
}

// startDelim reports whether c alone forms a token (spec.md §4.1 step 2).
// Note '/' is excluded: it begins a Name token instead.
func startDelim(c byte) bool {
	switch c {
	case '<', '>', '[', ']', '(', ')':
		return true
	}
	return false
}

// readByte reads one byte. When the source is exhausted, it reports eof
// = true; if failOnEOF is set, it instead returns a wrapped
// ErrTruncatedFile.
func (s *scanner) readByte(failOnEOF bool) (c byte, eof bool, err error) {
	c, err = s.src.ReadByte()
	if err == nil {
		return c, false, nil
	}
	if err != io.EOF {
		return 0, false, err
	}
	if failOnEOF {
		off, _ := s.src.Tell()
		return 0, false, offsetErr(ErrTruncatedFile, off, "unexpected end of file")
	}
	return 0, true, nil
}

// nextToken returns the next token, the file offset of its first byte,
// and an error. When failOnEOF is false and the source is exhausted
// before any token bytes are read, it returns ("", 0, nil) — the
// empty token signals end of stream to the parser. preserveComment
// controls whether a leading '%' starts comment-skip mode (false, the
// normal case) or is treated as an ordinary token byte (true), so that
// "%%EOF" and any glued trailing bytes ("%%EOF1") come back as a single
// token instead of being swallowed as a comment; used only by the
// startxref sub-routine's %%EOF read (spec.md §4.3).
func (s *scanner) nextToken(failOnEOF, preserveComment bool) (string, int64, error) {
	for {
		c, eof, err := s.readByte(failOnEOF)
		if err != nil {
			return "", 0, err
		}
		if eof {
			return "", 0, nil
		}
		if isLeadingWhitespace(c) {
			continue
		}

		if c == '%' && !preserveComment {
			if err := s.consumeLine(); err != nil {
				return "", 0, err
			}
			continue
		}

		offset, _ := s.src.Tell()
		offset--

		if startDelim(c) {
			tok := []byte{c}
			if c == '<' || c == '>' {
				c2, eof2, err2 := s.readByte(false)
				if err2 != nil {
					return "", 0, err2
				}
				if !eof2 {
					if c2 == c {
						tok = append(tok, c2)
					} else if err := s.src.UnreadByte(); err != nil {
						return "", 0, err
					}
				}
			}
			return string(tok), offset, nil
		}

		buf := []byte{c}
		for {
			c2, eof2, err2 := s.readByte(false)
			if err2 != nil {
				return "", 0, err2
			}
			if eof2 || isLineTerminator(c2) {
				break
			}
			if midTokenPushback(c2) {
				if err := s.src.UnreadByte(); err != nil {
					return "", 0, err
				}
				break
			}
			buf = append(buf, c2)
		}
		return string(buf), offset, nil
	}
}

func (s *scanner) consumeLine() error {
	for {
		c, eof, err := s.readByte(false)
		if err != nil {
			return err
		}
		if eof || isLineTerminator(c) {
			return nil
		}
	}
}
