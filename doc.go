// Package pdfkit parses and incrementally rewrites files conforming to
// the PDF 1.x container grammar: indirect objects, cross-reference
// tables, and trailers. It does not interpret page trees, fonts,
// content streams, encryption, or compressed (object-stream) xrefs —
// callers needing those build on top of the parsed Document.
package pdfkit
