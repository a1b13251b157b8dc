package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/text"
)

var (
	// ErrOpen is wrapped by every error returned while opening a document
	ErrOpen = errors.New("failed to open PDF")

	// ErrMalformedPage is wrapped when a page's content cannot be decoded
	ErrMalformedPage = errors.New("malformed page content")
)

// PDFVersion represents a PDF version number
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as "major.minor"
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

var headerVersion = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// Reader reads text runs from a PDF document
type Reader struct {
	file    *os.File // nil when reading from memory
	doc     *pdf.Reader
	version PDFVersion
	logger  zerolog.Logger

	// the PDF library keeps internal state while decoding pages
	mu sync.Mutex
}

// Open opens a PDF file for reading
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to get file info: %w", ErrOpen, err)
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// OpenBytes opens a PDF document held in memory
func OpenBytes(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrOpen)
	}
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// NewReader creates a reader over r, which must hold size bytes of PDF
func NewReader(r io.ReaderAt, size int64) (rd *Reader, err error) {
	version, err := parseHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	defer func() {
		if p := recover(); p != nil {
			rd, err = nil, fmt.Errorf("%w: %v", ErrOpen, p)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	return &Reader{
		doc:     doc,
		version: version,
		logger:  zerolog.Nop(),
	}, nil
}

// parseHeader reads the %PDF-x.y header
func parseHeader(r io.ReaderAt) (PDFVersion, error) {
	header := make([]byte, 16)
	n, err := r.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return PDFVersion{}, fmt.Errorf("failed to read header: %w", err)
	}
	if n < 8 {
		return PDFVersion{}, fmt.Errorf("header too short: %d bytes", n)
	}

	m := headerVersion.FindSubmatch(header[:n])
	if m == nil {
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %q", header[:8])
	}

	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// WithLogger sets the logger used for per-page diagnostics
func (r *Reader) WithLogger(logger zerolog.Logger) *Reader {
	r.logger = logger
	return r
}

// Close releases the underlying file, if any
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Version returns the PDF version from the file header
func (r *Reader) Version() PDFVersion {
	return r.version
}

// PageCount returns the number of pages
func (r *Reader) PageCount() int {
	return r.doc.NumPage()
}

// Summary returns the page count and the Info dictionary entries
func (r *Reader) Summary() model.Summary {
	s := model.Summary{Pages: r.PageCount()}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn().Interface("panic", p).Msg("unreadable info dictionary")
		}
	}()

	info := r.doc.Trailer().Key("Info")
	if info.IsNull() {
		return s
	}
	s.Title = info.Key("Title").Text()
	s.Author = info.Key("Author").Text()
	s.Creator = info.Key("Creator").Text()
	s.Producer = info.Key("Producer").Text()
	return s
}

// Page returns the text runs of page n (1-based)
func (r *Reader) Page(n int) (page text.Page, err error) {
	if n < 1 || n > r.PageCount() {
		return text.Page{}, fmt.Errorf("page %d out of range (document has %d pages)", n, r.PageCount())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			page = text.Page{Number: n}
			err = fmt.Errorf("page %d: %w: %v", n, ErrMalformedPage, p)
		}
	}()

	p := r.doc.Page(n)
	if p.V.IsNull() {
		return text.Page{Number: n}, nil
	}

	box := mediaBox(p)
	glyphs := p.Content().Text

	page = text.Page{
		Number: n,
		Width:  box.Width(),
		Height: box.Height(),
		Runs:   groupGlyphs(glyphs, box),
	}

	r.logger.Debug().
		Int("page", n).
		Int("glyphs", len(glyphs)).
		Int("runs", len(page.Runs)).
		Msg("page decoded")

	return page, nil
}
