// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoding decodes the byte encodings PDF text strings use.
// Only the UTF-16BE-with-BOM form is handled here: the single-byte
// PDFDocEncoding table it sat alongside in the encoding's usual home is
// not something this module carries a source for, and guessing at 256
// codepoint mappings would be worse than not supporting it.
package encoding

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// IsUTF16 reports whether s opens with the big-endian UTF-16 byte-order
// mark PDF text strings use to distinguish themselves from PDFDocEncoded
// bytes, and has an even length as UTF-16 code units require.
func IsUTF16(s string) bool {
	return len(s) >= 2 && s[0] == 0xfe && s[1] == 0xff && len(s)%2 == 0
}

// UTF16Decode decodes s as big-endian UTF-16 and normalizes the result to
// NFKC, matching how PDF text strings are conventionally compared. s must
// already have its BOM stripped: a leading 0xFE 0xFF is decoded as U+FEFF.
func UTF16Decode(s string) string {
	var u []uint16
	for i := 0; i < len(s); i += 2 {
		u = append(u, uint16(s[i])<<8|uint16(s[i+1]))
	}
	return norm.NFKC.String(string(utf16.Decode(u)))
}
