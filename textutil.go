package pdfkit

import (
	pdfenc "github.com/gsoutade/pdfkit/internal/encoding"
	"github.com/gsoutade/pdfkit/internal/types"
)

// Text returns a String or HexString Value's body decoded as text. A
// body opening with the UTF-16BE byte-order mark is decoded and
// NFKC-normalized; anything else is returned as its raw bytes, since
// this module does not carry a PDFDocEncoding table to decode against.
// Non-string Values return "".
func Text(v types.Value) string {
	switch v.Kind() {
	case types.KindString, types.KindHexString:
		raw := v.RawString()
		if pdfenc.IsUTF16(raw) {
			return pdfenc.UTF16Decode(raw[2:])
		}
		return raw
	default:
		return ""
	}
}
