package layout

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/text"
)

// Line represents a single cleaned line of text on a page
type Line struct {
	// Text is the cleaned text content of the line
	Text string

	// OriginX, OriginY is the top-left corner of the line's bounding box
	OriginX float64
	OriginY float64

	// EndX is the right edge of the line
	EndX float64

	// FontSize and FontName come from the line's first run
	FontSize float64
	FontName string
}

// PageLines holds the ordered lines of one page
type PageLines struct {
	// Number is the 1-based page number
	Number int

	// Lines are sorted by (round(OriginY,1), OriginX)
	Lines []Line
}

// LineConfig holds configuration for line extraction
type LineConfig struct {
	// EdgeMargin drops lines whose top is closer than this to the top or
	// bottom page edge, which removes running headers and page numbers
	// (default: 50 points)
	EdgeMargin float64

	// AngleTolerance is the maximum deviation from horizontal, in degrees,
	// for a run to be kept (default: 2)
	AngleTolerance float64

	// MaxRunGap is the largest horizontal gap between two runs of the same
	// line, as a multiple of font size (default: 4)
	MaxRunGap float64

	// LineHeightTolerance is the Y-distance tolerance for grouping runs into
	// one line, as a fraction of font size (default: 0.5)
	LineHeightTolerance float64
}

// DefaultLineConfig returns the default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		EdgeMargin:          50.0,
		AngleTolerance:      2.0,
		MaxRunGap:           4.0,
		LineHeightTolerance: 0.5,
	}
}

// LineExtractor turns the runs of a page into ordered lines
type LineExtractor struct {
	config LineConfig
}

// NewLineExtractor creates a line extractor with default configuration
func NewLineExtractor() *LineExtractor {
	return &LineExtractor{
		config: DefaultLineConfig(),
	}
}

// NewLineExtractorWithConfig creates a line extractor with custom configuration
func NewLineExtractorWithConfig(config LineConfig) *LineExtractor {
	return &LineExtractor{
		config: config,
	}
}

// Config returns the extractor's configuration
func (e *LineExtractor) Config() LineConfig {
	return e.config
}

// Extract builds the cleaned, deduplicated and ordered lines of a page.
// A page without usable text yields an empty line list, never an error.
func (e *LineExtractor) Extract(page text.Page) *PageLines {
	result := &PageLines{Number: page.Number}
	if len(page.Runs) == 0 {
		return result
	}

	// Step 1: Drop rotated runs and runs with no visible text
	runs := e.horizontalRuns(page.Runs)

	// Step 2: Group runs into physical lines
	groups := e.groupIntoLines(runs)

	// Step 3: Build and filter lines
	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		line := buildLine(g)
		if line.Text == "" || !e.insideBody(line, page.Height) {
			continue
		}
		lines = append(lines, line)
	}

	// Step 4: Order and deduplicate
	result.Lines = dedupLines(sortLines(lines))
	return result
}

// horizontalRuns keeps runs whose baseline is within the angle tolerance
func (e *LineExtractor) horizontalRuns(runs []text.Run) []text.Run {
	kept := make([]text.Run, 0, len(runs))
	for _, r := range runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if !r.IsHorizontal(e.config.AngleTolerance) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// groupIntoLines buckets runs into rows by their top edge, then splits each
// row wherever the horizontal gap exceeds MaxRunGap font sizes. A run that
// starts inside the first half of its predecessor is overprinted text and
// starts its own line, so deduplication can drop it.
func (e *LineExtractor) groupIntoLines(runs []text.Run) [][]text.Run {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]text.Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y0 != sorted[j].Y0 {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows [][]text.Run
	var row []text.Run
	for _, r := range sorted {
		if len(row) > 0 {
			tol := fontSizeOf(row[0]) * e.config.LineHeightTolerance
			if math.Abs(r.Y0-row[0].Y0) > tol {
				rows = append(rows, row)
				row = nil
			}
		}
		row = append(row, r)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var lines [][]text.Run
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X0 < row[j].X0
		})

		current := []text.Run{row[0]}
		for _, r := range row[1:] {
			prev := current[len(current)-1]
			gap := r.X0 - prev.X1
			overprint := r.X0 < prev.X1-prev.Width()/2
			if gap > e.config.MaxRunGap*fontSizeOf(prev) || overprint {
				lines = append(lines, current)
				current = nil
			}
			current = append(current, r)
		}
		lines = append(lines, current)
	}

	return lines
}

// insideBody reports whether a line lies outside the top and bottom margins.
// An unknown page height disables the bottom check.
func (e *LineExtractor) insideBody(line Line, pageHeight float64) bool {
	if line.OriginY < e.config.EdgeMargin {
		return false
	}
	if pageHeight > 0 && line.OriginY > pageHeight-e.config.EdgeMargin {
		return false
	}
	return true
}

// buildLine assembles one line from runs sorted left to right
func buildLine(runs []text.Run) Line {
	first := runs[0]
	line := Line{
		OriginX:  first.X0,
		OriginY:  first.Y0,
		EndX:     first.X1,
		FontSize: first.FontSize,
		FontName: first.FontName,
	}

	var sb strings.Builder
	for i, r := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := r.X0 - prev.X1
			// Add space if the runs do not touch and neither side has one
			if gap > fontSizeOf(r)*0.1 && !endsWithSpace(sb.String()) && !startsWithSpace(r.Text) {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(r.Text)

		if r.Y0 < line.OriginY {
			line.OriginY = r.Y0
		}
		if r.X1 > line.EndX {
			line.EndX = r.X1
		}
	}

	line.Text = text.CleanLine(sb.String())
	return line
}

// sortLines orders lines top to bottom, then left to right, on Y rounded to
// one decimal place
func sortLines(lines []Line) []Line {
	sort.SliceStable(lines, func(i, j int) bool {
		yi, yj := roundY(lines[i].OriginY), roundY(lines[j].OriginY)
		if yi != yj {
			return yi < yj
		}
		return lines[i].OriginX < lines[j].OriginX
	})
	return lines
}

type lineKey struct {
	y    float64
	text string
}

// dedupLines drops repeated (rounded Y, text) pairs, keeping the first.
// Some producers draw the same text twice for a bold effect.
func dedupLines(lines []Line) []Line {
	seen := make(map[lineKey]bool, len(lines))
	filtered := lines[:0]
	for _, l := range lines {
		key := lineKey{y: roundY(l.OriginY), text: l.Text}
		if seen[key] {
			continue
		}
		seen[key] = true
		filtered = append(filtered, l)
	}
	return filtered
}

func roundY(y float64) float64 {
	return math.Round(y*10) / 10
}

// fontSizeOf returns the run's font size, falling back to its height
func fontSizeOf(r text.Run) float64 {
	if r.FontSize > 0 {
		return r.FontSize
	}
	if h := r.Height(); h > 0 {
		return h
	}
	return 12.0
}

func endsWithSpace(s string) bool {
	if s == "" {
		return true
	}
	return unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

// Len returns the number of lines
func (p *PageLines) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Lines)
}

// Text returns the lines joined by newlines
func (p *PageLines) Text() string {
	if p == nil || len(p.Lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, l := range p.Lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}

// BBox returns the line's bounding box, using the font size as its height
func (l Line) BBox() model.BBox {
	return model.NewBBox(l.OriginX, l.OriginY, l.EndX, l.OriginY+l.FontSize)
}
