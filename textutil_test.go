package pdfkit

import (
	"testing"

	"github.com/gsoutade/pdfkit/internal/types"
)

func TestTextPlainStringPassesThrough(t *testing.T) {
	v := types.NewString("hello")
	if got := Text(v); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestTextDecodesUTF16WithBOM(t *testing.T) {
	// "Hi" as big-endian UTF-16 with a leading BOM.
	raw := string([]byte{0xfe, 0xff, 0x00, 'H', 0x00, 'i'})
	v := types.NewHexString(raw)
	if got := Text(v); got != "Hi" {
		t.Fatalf("got %q, want %q", got, "Hi")
	}
}

func TestTextNonStringValueIsEmpty(t *testing.T) {
	if got := Text(types.NewInteger(42, false)); got != "" {
		t.Fatalf("got %q, want empty string for a non-string Value", got)
	}
}
