package text

import (
	"github.com/tsawler/slugline/model"
)

// Run represents a piece of text with position, as drawn by a backend
type Run struct {
	Text string

	// Bounding box, top-left origin
	X0, Y0, X1, Y1 float64

	FontName string
	FontSize float64

	// Direction is the baseline direction; nil means horizontal
	Direction *Vector
}

// NewRun creates a run from its top-left corner and size
func NewRun(text string, x, y, width, height, fontSize float64) Run {
	return Run{
		Text:     text,
		X0:       x,
		Y0:       y,
		X1:       x + width,
		Y1:       y + height,
		FontSize: fontSize,
	}
}

// BBox returns the run's bounding box
func (r Run) BBox() model.BBox {
	return model.NewBBox(r.X0, r.Y0, r.X1, r.Y1)
}

// Width returns the horizontal extent of the run
func (r Run) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the run
func (r Run) Height() float64 {
	return r.Y1 - r.Y0
}

// IsHorizontal reports whether the run's baseline is within tolDeg degrees
// of horizontal. Runs without a direction are horizontal.
func (r Run) IsHorizontal(tolDeg float64) bool {
	if r.Direction == nil {
		return true
	}
	return r.Direction.IsHorizontal(tolDeg)
}

// Page is one page worth of runs as handed over by a backend
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Runs   []Run
}

// IsEmpty returns true if the page carries no runs
func (p Page) IsEmpty() bool {
	return len(p.Runs) == 0
}

// Text concatenates run text in backend order, one run per line. Used for
// previews; it does not attempt any layout reconstruction.
func (p Page) Text() string {
	var n int
	for _, r := range p.Runs {
		n += len(r.Text) + 1
	}
	b := make([]byte, 0, n)
	for i, r := range p.Runs {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, r.Text...)
	}
	return string(b)
}
