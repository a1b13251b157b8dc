package slugline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/format"
	"github.com/tsawler/slugline/layout"
	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/ocr"
	"github.com/tsawler/slugline/pages"
	"github.com/tsawler/slugline/reader"
	"github.com/tsawler/slugline/text"
)

// Extractor provides a fluent interface for classifying screenplay pages.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	data     []byte
	inMemory bool

	source PageSource

	// Lifecycle
	ownsSource   bool // true if we opened the source and should close it
	sourceOpened bool // true if source has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// PageParagraphs holds the paragraphs found on one page.
type PageParagraphs struct {
	Number     int
	Paragraphs []layout.Paragraph
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		data:         e.data,
		inMemory:     e.inMemory,
		source:       e.source,
		ownsSource:   e.ownsSource,
		sourceOpened: e.sourceOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureSource opens the page source if not already open.
func (e *Extractor) ensureSource() error {
	if e.sourceOpened {
		return nil
	}

	if e.inMemory {
		if format.DetectFromMagic(e.data) != format.PDF {
			return fmt.Errorf("%w: in-memory input must be a PDF", ErrUnsupportedFormat)
		}
		r, err := reader.OpenBytes(e.data)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		e.adopt(r.WithLogger(e.options.logger))
		return nil
	}

	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	f := detectFormat(e.filename)
	switch {
	case f == format.PDF:
		r, err := reader.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		e.adopt(r.WithLogger(e.options.logger))
		return nil

	case f.IsImage():
		cfg := ocr.DefaultSourceConfig()
		cfg.Language = e.options.ocrLanguage
		cfg.Logger = e.options.logger
		src, err := ocr.NewImageSourceWithConfig([]string{e.filename}, cfg)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		e.adopt(src)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.filename)
	}
}

func (e *Extractor) adopt(src PageSource) {
	e.source = src
	e.ownsSource = true
	e.sourceOpened = true
}

// detectFormat looks at the file content, falling back to the extension
// when the file cannot be read.
func detectFormat(filename string) format.Format {
	f, err := os.Open(filename)
	if err != nil {
		return format.Detect(filename)
	}
	defer f.Close()
	return format.DetectFile(filename, f)
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsSource && e.source != nil {
		err := e.source.Close()
		e.source = nil
		e.ownsSource = false
		e.sourceOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to classify (1-indexed).
// Multiple calls are cumulative. Pages outside the document make the
// terminal operation fail.
//
// Example:
//
//	records, _, err := slugline.Open("script.pdf").Pages(1, 2, 3).Classify()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a contiguous range of pages (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range: start (%d) > end (%d)", start, end)
		return newExt
	}
	for p := start; p <= end; p++ {
		newExt.options.pages = append(newExt.options.pages, p)
	}
	return newExt
}

// PageSpec selects pages with a range expression such as "3-5,10,12-".
// Pages beyond the document are clipped and malformed tokens are ignored.
// A non-empty spec that selects nothing, such as "abc" or "9-" on a
// three-page document, falls back to all pages rather than to none.
func (e *Extractor) PageSpec(spec string) *Extractor {
	newExt := e.clone()
	if newExt.options.pageSpec != "" && spec != "" {
		newExt.options.pageSpec += "," + spec
	} else if spec != "" {
		newExt.options.pageSpec = spec
	}
	return newExt
}

// YGap sets the vertical gap, in points, above which a new paragraph starts
// (default 15).
func (e *Extractor) YGap(points float64) *Extractor {
	newExt := e.clone()
	newExt.options.segment.YGapThreshold = points
	return newExt
}

// IndentGap sets the left-edge shift, in points, that starts a new
// paragraph after a line ending a sentence (default 12).
func (e *Extractor) IndentGap(points float64) *Extractor {
	newExt := e.clone()
	newExt.options.segment.IndentThreshold = points
	return newExt
}

// WithSegmentConfig replaces the paragraph segmentation thresholds.
func (e *Extractor) WithSegmentConfig(config layout.SegmentConfig) *Extractor {
	newExt := e.clone()
	newExt.options.segment = config
	return newExt
}

// WithLineConfig replaces the line extraction settings.
func (e *Extractor) WithLineConfig(config layout.LineConfig) *Extractor {
	newExt := e.clone()
	newExt.options.lines = config
	return newExt
}

// WithBands replaces the horizontal positions used by the classifier.
func (e *Extractor) WithBands(bands classify.Bands) *Extractor {
	newExt := e.clone()
	newExt.options.bands = bands
	return newExt
}

// WithLabels sets the label index used to number records.
func (e *Extractor) WithLabels(labels *classify.LabelIndex) *Extractor {
	newExt := e.clone()
	newExt.options.labels = labels
	return newExt
}

// OCRLanguage sets the recognition languages for image inputs, e.g.
// "eng+spa".
func (e *Extractor) OCRLanguage(lang string) *Extractor {
	newExt := e.clone()
	if lang != "" {
		newExt.options.ocrLanguage = lang
	}
	return newExt
}

// Workers sets how many pages are laid out and classified concurrently.
// Values below 1 mean 1.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = max(n, 1)
	return newExt
}

// WithLogger sets the logger used for per-page diagnostics.
func (e *Extractor) WithLogger(logger zerolog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the document.
// Note: This does NOT close the source, allowing further operations.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureSource(); err != nil {
		return 0, err
	}
	return e.source.PageCount(), nil
}

// summarizer is implemented by sources that carry document metadata.
type summarizer interface {
	Summary() model.Summary
}

// Summary returns the page count and document metadata.
// Note: This does NOT close the source, allowing further operations.
func (e *Extractor) Summary() (model.Summary, error) {
	if e.err != nil {
		return model.Summary{}, e.err
	}
	if err := e.ensureSource(); err != nil {
		return model.Summary{}, err
	}
	if s, ok := e.source.(summarizer); ok {
		return s.Summary(), nil
	}
	return model.Summary{Pages: e.source.PageCount()}, nil
}

// FirstPageText returns up to n characters of the first page's raw text
// with line breaks flattened to spaces. This is a terminal operation.
func (e *Extractor) FirstPageText(n int) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if err := e.ensureSource(); err != nil {
		return "", err
	}
	defer e.Close()

	if e.source.PageCount() == 0 || n <= 0 {
		return "", nil
	}
	page, _, err := e.fetch(1)
	if err != nil {
		return "", err
	}

	runes := []rune(page.Text())
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ReplaceAll(string(runes), "\n", " "), nil
}

// Lines returns the cleaned, ordered lines of each selected page.
// This is a terminal operation that closes the underlying source.
//
// Example:
//
//	pages, _, err := slugline.Open("script.pdf").Pages(3).Lines()
//	for _, line := range pages[0].Lines {
//	    fmt.Printf("%6.1f %6.1f %s\n", line.OriginX, line.OriginY, line.Text)
//	}
func (e *Extractor) Lines() ([]layout.PageLines, []Warning, error) {
	results, warnings, err := e.process(stageLines)
	if err != nil {
		return nil, warnings, err
	}
	out := make([]layout.PageLines, len(results))
	for i, r := range results {
		out[i] = *r.lines
	}
	return out, warnings, nil
}

// Paragraphs returns the paragraphs of each selected page.
// This is a terminal operation that closes the underlying source.
func (e *Extractor) Paragraphs() ([]PageParagraphs, []Warning, error) {
	results, warnings, err := e.process(stageParagraphs)
	if err != nil {
		return nil, warnings, err
	}
	out := make([]PageParagraphs, len(results))
	for i, r := range results {
		out[i] = PageParagraphs{Number: r.number, Paragraphs: r.paragraphs}
	}
	return out, warnings, nil
}

// Classify labels every paragraph of the selected pages and returns them
// as records in page order. Pages without paragraphs contribute nothing.
// This is a terminal operation that closes the underlying source.
func (e *Extractor) Classify() ([]model.Record, []Warning, error) {
	results, warnings, err := e.process(stageClassify)
	if err != nil {
		return nil, warnings, err
	}
	var records []model.Record
	for _, r := range results {
		records = append(records, classify.Records(r.number, r.results)...)
	}
	return records, warnings, nil
}

// process opens the source, resolves the selection and runs the pipeline.
func (e *Extractor) process(upTo stage) ([]pageResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	numbers, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	results, err := e.run(numbers, upTo)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, r := range results {
		warnings = append(warnings, r.warnings...)
	}
	return results, warnings, nil
}

// resolvePages returns the selected page numbers in ascending order.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount := e.source.PageCount()

	// If no pages specified, use all pages
	if !e.options.hasSelection() {
		return pages.All(pageCount).Sorted(), nil
	}

	if err := pages.Check(e.options.pages, pageCount); err != nil {
		return nil, err
	}

	selected := pages.Of(e.options.pages...)
	if e.options.pageSpec != "" {
		for n := range pages.ParseRange(e.options.pageSpec, pageCount) {
			selected.Add(n)
		}
	}
	if selected.Len() == 0 {
		return pages.All(pageCount).Sorted(), nil
	}
	return selected.Sorted(), nil
}

// fetch reads page n from the source. Pages that cannot be decoded, and
// pages of image sources when OCR is not built in, come back empty with a
// warning; other errors are returned.
func (e *Extractor) fetch(n int) (text.Page, []Warning, error) {
	page, err := e.source.Page(n)
	switch {
	case err == nil:
	case errors.Is(err, reader.ErrMalformedPage):
		e.options.logger.Warn().Err(err).Int("page", n).Msg("page treated as empty")
		return text.Page{Number: n}, []Warning{{
			Page:    n,
			Code:    WarnMalformedPage,
			Message: err.Error(),
		}}, nil
	case errors.Is(err, ocr.ErrOCRNotEnabled):
		return text.Page{Number: n}, []Warning{{
			Page:    n,
			Code:    WarnOCRUnavailable,
			Message: "OCR support not enabled; page treated as empty",
		}}, nil
	default:
		return text.Page{}, nil, fmt.Errorf("page %d: %w", n, err)
	}

	if page.IsEmpty() {
		return page, []Warning{{
			Page:    n,
			Code:    WarnNoText,
			Message: "page has no text; it may be a scanned image",
		}}, nil
	}
	return page, nil, nil
}
