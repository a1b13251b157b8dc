// Package reader opens PDF documents and turns their pages into positioned
// text runs.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("script.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [OpenBytes] for a document already in memory, or [NewReader] with
// any io.ReaderAt. Every open failure wraps [ErrOpen].
//
// # Pages
//
// [Reader.Page] returns a text.Page for a 1-based page number. Glyphs are
// grouped into runs in content stream order; the run's direction comes from
// its first and last glyph, so rotated watermarks can be filtered later.
// Coordinates are converted to a top-left origin relative to the page's
// MediaBox, which may be inherited from the page tree.
//
// Content that makes the PDF library panic is reported as an error wrapping
// [ErrMalformedPage] instead of crashing the caller.
package reader
