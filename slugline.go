// Package slugline classifies the paragraphs of screenplay pages into
// screenplay elements (scene headings, action, character cues, dialogue and
// so on) from the position and text of each paragraph.
//
// Basic usage:
//
//	records, warnings, err := slugline.Open("script.pdf").Classify()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", slugline.FormatWarnings(warnings))
//	}
//
// With options:
//
//	records, _, err := slugline.Open("script.pdf").
//	    PageSpec("3-5,10").
//	    YGap(15).
//	    IndentGap(12).
//	    Classify()
//
// The lower-level layout and classify packages can be used directly on
// pages from any backend.
package slugline

import (
	"errors"

	"github.com/tsawler/slugline/text"
)

// ErrUnsupportedFormat is returned when the input is neither a PDF nor a
// page image.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// PageSource is a backend that yields positioned text runs per page.
// Page numbers are 1-based.
type PageSource interface {
	PageCount() int
	Page(n int) (text.Page, error)
	Close() error
}

// Open opens a PDF or a page image and returns an Extractor for fluent
// configuration. Images are read through OCR. The file is opened lazily on
// the first terminal operation, which also closes it.
//
// Example:
//
//	records, warnings, err := slugline.Open("script.pdf").Classify()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// OpenBytes returns an Extractor over a PDF document held in memory.
func OpenBytes(data []byte) *Extractor {
	return &Extractor{
		data:     data,
		inMemory: true,
		options:  defaultOptions(),
	}
}

// FromSource creates an Extractor from an already-opened page source.
// The caller is responsible for closing the source.
//
// Example:
//
//	r, err := reader.Open("script.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	records, warnings, err := slugline.FromSource(r).Classify()
func FromSource(src PageSource) *Extractor {
	return &Extractor{
		source:       src,
		ownsSource:   false,
		sourceOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := slugline.Must(slugline.Open("script.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRecords is a helper that wraps a call to Classify() and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	records := slugline.MustRecords(slugline.Open("script.pdf").Classify())
func MustRecords[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
