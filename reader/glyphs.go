package reader

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/text"
)

// Glyph spacing, in multiples of the font size
const (
	// advance assumed for glyphs reported without a width (Courier)
	defaultAdvance = 0.6

	// baseline drift still considered the same baseline
	sameBaseline = 0.2

	// largest step from the end of one glyph to the start of the next
	maxGlyphStep = 1.5

	// gap that reads as a word break when the stream has no space glyph
	wordGap = 0.15

	// largest vertical step along a rotated run; line spacing is larger
	maxRotatedStep = 0.9

	// fallback when the library reports no font size
	defaultFontSize = 12.0
)

// groupGlyphs joins glyphs into runs in content stream order and converts
// them to top-left page coordinates
func groupGlyphs(glyphs []pdf.Text, box model.BBox) []text.Run {
	var runs []text.Run
	var cur *runBuilder

	for _, g := range placeGlyphs(glyphs) {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		if cur != nil {
			runs = append(runs, cur.build(box))
		}
		cur = newRunBuilder(g)
	}
	if cur != nil {
		runs = append(runs, cur.build(box))
	}

	return runs
}

// placeGlyphs gives every glyph a width and a position of its own. For fonts
// without a Widths array, which includes the standard 14 fonts, the library
// does not advance the text matrix: all glyphs of one string share the X of
// the string and report W=0. Such glyphs are laid out one after the other
// using the fallback advance.
func placeGlyphs(glyphs []pdf.Text) []pdf.Text {
	out := make([]pdf.Text, len(glyphs))
	for i, g := range glyphs {
		if g.W <= 0 {
			if i > 0 && sharesOrigin(glyphs[i-1], g) {
				prev := out[i-1]
				g.X = prev.X + prev.W
				g.Y = prev.Y
			}
			g.W = glyphWidth(g)
		}
		out[i] = g
	}
	return out
}

// sharesOrigin reports whether g was reported at the unadvanced origin of
// the zero-width glyph before it
func sharesOrigin(prev, g pdf.Text) bool {
	return prev.W <= 0 &&
		prev.Font == g.Font &&
		math.Abs(prev.FontSize-g.FontSize) <= 0.01 &&
		math.Abs(prev.X-g.X) <= 0.01 &&
		math.Abs(prev.Y-g.Y) <= 0.01
}

type runBuilder struct {
	glyphs []pdf.Text
	sb     strings.Builder
}

func newRunBuilder(g pdf.Text) *runBuilder {
	b := &runBuilder{}
	b.glyphs = append(b.glyphs, g)
	b.sb.WriteString(g.S)
	return b
}

func (b *runBuilder) last() pdf.Text {
	return b.glyphs[len(b.glyphs)-1]
}

// accepts reports whether g continues the run
func (b *runBuilder) accepts(g pdf.Text) bool {
	last := b.last()
	if math.Abs(g.FontSize-last.FontSize) > 0.01 {
		return false
	}

	fs := fontSize(g)
	dx := g.X - (last.X + glyphWidth(last))
	dy := g.Y - last.Y

	if math.Abs(dy) <= sameBaseline*fs {
		return dx >= -0.5*fs && dx <= maxGlyphStep*fs
	}
	return math.Abs(dy) < maxRotatedStep*fs && math.Hypot(dx, dy) <= maxGlyphStep*fs
}

func (b *runBuilder) add(g pdf.Text) {
	last := b.last()
	fs := fontSize(g)
	dx := g.X - (last.X + glyphWidth(last))
	sameLine := math.Abs(g.Y-last.Y) <= sameBaseline*fs

	if sameLine && dx > wordGap*fs && !endsWithSpace(last.S) && !startsWithSpace(g.S) {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(g.S)
	b.glyphs = append(b.glyphs, g)
}

// build converts the run to top-left coordinates relative to box
func (b *runBuilder) build(box model.BBox) text.Run {
	first := b.glyphs[0]
	var bounds model.BBox
	for _, g := range b.glyphs {
		fs := fontSize(g)
		baseline := box.Y1 - g.Y
		x := g.X - box.X0
		bounds = bounds.Union(model.NewBBox(x, baseline-fs, x+glyphWidth(g), baseline))
	}

	run := text.Run{
		Text:     b.sb.String(),
		X0:       bounds.X0,
		Y0:       bounds.Y0,
		X1:       bounds.X1,
		Y1:       bounds.Y1,
		FontName: first.Font,
		FontSize: first.FontSize,
	}

	if len(b.glyphs) > 1 {
		last := b.last()
		// PDF Y grows upward; flip it so the vector matches page coordinates
		if v, ok := text.DirectionBetween(first.X, -first.Y, last.X, -last.Y); ok {
			run.Direction = &v
		}
	}

	return run
}

func fontSize(g pdf.Text) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return defaultFontSize
}

func glyphWidth(g pdf.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	return defaultAdvance * fontSize(g) * float64(utf8.RuneCountInString(g.S))
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
