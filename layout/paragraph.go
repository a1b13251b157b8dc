package layout

import (
	"math"
	"strings"

	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/text"
)

// Paragraph represents a run of consecutive lines merged into one unit
type Paragraph struct {
	// Text is the space-joined, hyphen-repaired text
	Text string

	// StartY and EndY are the OriginY of the first and last line
	StartY float64
	EndY   float64

	// LeftX is the smallest OriginX, RightX the largest EndX
	LeftX  float64
	RightX float64

	// LineCount is the number of lines merged into the paragraph
	LineCount int
}

// SegmentConfig holds the paragraph break thresholds
type SegmentConfig struct {
	// YGapThreshold is the vertical distance between line tops above which
	// a new paragraph always starts (default: 15 points)
	YGapThreshold float64

	// IndentThreshold is the change in left edge that, combined with half
	// the Y gap, starts a new paragraph (default: 12 points)
	IndentThreshold float64
}

// DefaultSegmentConfig returns the default configuration
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		YGapThreshold:   15.0,
		IndentThreshold: 12.0,
	}
}

// Segmenter groups ordered lines into paragraphs
type Segmenter struct {
	config SegmentConfig
}

// NewSegmenter creates a segmenter with default configuration
func NewSegmenter() *Segmenter {
	return &Segmenter{
		config: DefaultSegmentConfig(),
	}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration
func NewSegmenterWithConfig(config SegmentConfig) *Segmenter {
	return &Segmenter{
		config: config,
	}
}

// Config returns the segmenter's configuration
func (s *Segmenter) Config() SegmentConfig {
	return s.config
}

// Segment folds lines into paragraphs in a single pass. Every line ends up
// in exactly one paragraph and paragraph order follows line order.
func (s *Segmenter) Segment(lines []Line) []Paragraph {
	if len(lines) == 0 {
		return nil
	}

	paragraphs := make([]Paragraph, 0, len(lines)/2+1)
	cur := newParagraph(lines[0])
	prev := lines[0]

	for _, line := range lines[1:] {
		if s.isBreak(prev, line) {
			paragraphs = append(paragraphs, cur)
			cur = newParagraph(line)
		} else {
			cur.merge(line)
		}
		prev = line
	}

	return append(paragraphs, cur)
}

// isBreak decides whether line starts a new paragraph after prev
func (s *Segmenter) isBreak(prev, line Line) bool {
	yGap := s.config.YGapThreshold
	dy := line.OriginY - prev.OriginY
	dx := math.Abs(line.OriginX - prev.OriginX)

	switch {
	case dy > yGap:
		return true
	case dx > s.config.IndentThreshold && dy > yGap*0.5:
		return true
	case endsSentence(prev.Text) && dy > yGap*0.8:
		return true
	}
	return false
}

func endsSentence(s string) bool {
	s = strings.TrimRight(s, " \t\r\n")
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func newParagraph(l Line) Paragraph {
	return Paragraph{
		Text:      l.Text,
		StartY:    l.OriginY,
		EndY:      l.OriginY,
		LeftX:     l.OriginX,
		RightX:    l.EndX,
		LineCount: 1,
	}
}

// merge appends a continuation line
func (p *Paragraph) merge(l Line) {
	merged := strings.TrimRightFunc(p.Text, isSpace) + " " + strings.TrimLeftFunc(l.Text, isSpace)
	p.Text = text.NormalizeHyphens(strings.TrimSpace(merged))
	p.EndY = l.OriginY
	p.LeftX = math.Min(p.LeftX, l.OriginX)
	p.RightX = math.Max(p.RightX, l.EndX)
	p.LineCount++
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// BBox returns the paragraph's extent from first to last line top
func (p Paragraph) BBox() model.BBox {
	return model.NewBBox(p.LeftX, p.StartY, p.RightX, p.EndY)
}

// CenterX returns the horizontal midpoint of the paragraph
func (p Paragraph) CenterX() float64 {
	return (p.LeftX + p.RightX) / 2
}
