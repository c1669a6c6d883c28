// Package source provides the random-access byte view the scanner and
// parser read from: read-one-byte, seek-to, tell-current-offset, plus a
// bounded read for stream body copy-through.
package source

import "io"

// Source is a random-access, byte-addressable view over a file. It wraps
// an io.ReadSeeker rather than the teacher's forward-only buffered
// io.Reader because the scanner's delimiter pushback (spec.md §4.1 step
// 3) and the parser's transactional reference lookahead (§4.2.2) both
// need to rewind by an exact byte count, not just re-buffer.
type Source struct {
	r io.ReadSeeker
}

// New wraps r as a Source positioned wherever r currently is.
func New(r io.ReadSeeker) *Source {
	return &Source{r: r}
}

// ReadByte reads and returns the next byte, advancing the cursor.
func (s *Source) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := s.r.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}

// UnreadByte rewinds the cursor by one byte. It is the scanner's
// delimiter-pushback primitive.
func (s *Source) UnreadByte() error {
	_, err := s.r.Seek(-1, io.SeekCurrent)
	return err
}

// Tell returns the current byte offset.
func (s *Source) Tell() (int64, error) {
	return s.r.Seek(0, io.SeekCurrent)
}

// Seek moves the cursor to an absolute byte offset.
func (s *Source) Seek(offset int64) error {
	_, err := s.r.Seek(offset, io.SeekStart)
	return err
}

// ReadAt reads exactly len(buf) bytes starting at offset without
// disturbing the cursor used by ReadByte, for stream body copy-through
// during write (spec.md §4.6).
func (s *Source) ReadAt(buf []byte, offset int64) error {
	ra, ok := s.r.(io.ReaderAt)
	if !ok {
		saved, err := s.Tell()
		if err != nil {
			return err
		}
		defer s.Seek(saved)
		if err := s.Seek(offset); err != nil {
			return err
		}
		_, err = io.ReadFull(s.r, buf)
		return err
	}
	_, err := ra.ReadAt(buf, offset)
	return err
}
