package slugline

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/layout"
)

// ExtractOptions holds configuration for the classification pipeline.
type ExtractOptions struct {
	// Page selection (1-indexed). Explicit pages are validated against the
	// document; the range spec is clipped silently.
	pages    []int
	pageSpec string

	// Stage configuration
	lines   layout.LineConfig
	segment layout.SegmentConfig
	bands   classify.Bands
	labels  *classify.LabelIndex

	// OCR language list for image sources, e.g. "eng+spa"
	ocrLanguage string

	// Number of pages processed concurrently; 1 runs sequentially
	workers int

	logger zerolog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:       nil, // nil means all pages
		lines:       layout.DefaultLineConfig(),
		segment:     layout.DefaultSegmentConfig(),
		bands:       classify.DefaultBands(),
		labels:      nil, // nil means the taxonomy names
		ocrLanguage: "eng",
		workers:     1,
		logger:      zerolog.Nop(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}

// hasSelection reports whether any page selection was made.
func (o ExtractOptions) hasSelection() bool {
	return len(o.pages) > 0 || o.pageSpec != ""
}
