package ocr

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tsawler/slugline/text"
)

// LetterWidth is the width, in points, a scanned page is scaled to
const LetterWidth = 612.0

// SourceConfig holds configuration for an ImageSource
type SourceConfig struct {
	// Language is the Tesseract language list, e.g. "eng+spa" (default: "eng")
	Language string

	// PageWidth is the width in points each image is scaled to (default: 612)
	PageWidth float64

	// MinConfidence drops words recognized below this confidence, 0-100
	// (default: 30)
	MinConfidence float64

	// PageSegMode is the Tesseract layout mode (default: PSM_SINGLE_COLUMN).
	// Zero asks Tesseract for orientation detection only, so it is replaced
	// by the default.
	PageSegMode PageSegMode

	Logger zerolog.Logger
}

// DefaultSourceConfig returns the default configuration
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Language:      "eng",
		PageWidth:     LetterWidth,
		MinConfidence: 30,
		PageSegMode:   PSM_SINGLE_COLUMN,
		Logger:        zerolog.Nop(),
	}
}

// ImageSource serves one text page per image file
type ImageSource struct {
	paths  []string
	config SourceConfig

	mu     sync.Mutex
	client *Client
}

// NewImageSource creates a source over page images, in page order
func NewImageSource(paths []string) (*ImageSource, error) {
	return NewImageSourceWithConfig(paths, DefaultSourceConfig())
}

// NewImageSourceWithConfig creates a source with custom configuration
func NewImageSourceWithConfig(paths []string, config SourceConfig) (*ImageSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no page images")
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("page image: %w", err)
		}
	}
	if config.PageWidth <= 0 {
		config.PageWidth = LetterWidth
	}
	if config.PageSegMode == PSM_OSD_ONLY {
		config.PageSegMode = PSM_SINGLE_COLUMN
	}
	return &ImageSource{
		paths:  append([]string(nil), paths...),
		config: config,
	}, nil
}

// PageCount returns the number of page images
func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

// Page recognizes page n (1-based). The OCR engine is started on first use.
func (s *ImageSource) Page(n int) (text.Page, error) {
	if n < 1 || n > len(s.paths) {
		return text.Page{}, fmt.Errorf("page %d out of range (source has %d pages)", n, len(s.paths))
	}

	data, err := os.ReadFile(s.paths[n-1])
	if err != nil {
		return text.Page{Number: n}, fmt.Errorf("page %d: %w", n, err)
	}

	width, height, format, err := imageSize(data)
	if err != nil {
		return text.Page{Number: n}, fmt.Errorf("page %d: %w", n, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureClient(); err != nil {
		return text.Page{Number: n}, err
	}

	words, err := s.client.RecognizeWords(data)
	if err != nil {
		return text.Page{Number: n}, fmt.Errorf("page %d: %w", n, err)
	}

	scale := s.config.PageWidth / float64(width)
	page := text.Page{
		Number: n,
		Width:  s.config.PageWidth,
		Height: float64(height) * scale,
		Runs:   wordsToRuns(words, scale, s.config.MinConfidence),
	}

	s.config.Logger.Debug().
		Int("page", n).
		Str("format", format).
		Int("words", len(words)).
		Int("runs", len(page.Runs)).
		Msg("page recognized")

	return page, nil
}

func (s *ImageSource) ensureClient() error {
	if s.client != nil {
		return nil
	}
	client, err := New()
	if err != nil {
		return err
	}
	if s.config.Language != "" {
		if err := client.SetLanguage(s.config.Language); err != nil {
			client.Close()
			return fmt.Errorf("failed to set OCR language: %w", err)
		}
	}
	if err := client.SetPageSegMode(s.config.PageSegMode); err != nil {
		client.Close()
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	s.client = client
	return nil
}

// Close releases the OCR engine
func (s *ImageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// wordsToRuns converts pixel word boxes into runs in points. The word
// height stands in for the font size.
func wordsToRuns(words []Word, scale, minConfidence float64) []text.Run {
	runs := make([]text.Run, 0, len(words))
	for _, w := range words {
		t := strings.TrimSpace(w.Text)
		if t == "" || w.Confidence < minConfidence {
			continue
		}
		b := w.Box.Canon()
		if b.Empty() {
			continue
		}
		x0 := float64(b.Min.X) * scale
		y0 := float64(b.Min.Y) * scale
		x1 := float64(b.Max.X) * scale
		y1 := float64(b.Max.Y) * scale
		runs = append(runs, text.Run{
			Text:     t,
			X0:       x0,
			Y0:       y0,
			X1:       x1,
			Y1:       y1,
			FontName: "ocr",
			FontSize: y1 - y0,
		})
	}
	return runs
}
