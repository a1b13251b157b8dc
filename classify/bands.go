package classify

import "math"

// Bands holds the horizontal positions, in points from the left page edge,
// of the standard screenplay elements
type Bands struct {
	// Action is the left edge of action, general and shot paragraphs (default: 108)
	Action float64

	// SceneNumbered is the left edge of a scene heading that starts with its
	// scene number (default: 55)
	SceneNumbered float64

	// SceneUnnumbered is the left edge of a scene heading without a number (default: 108)
	SceneUnnumbered float64

	// Character is the left edge of a character cue (default: 252)
	Character float64

	// Parenthetical is the left edge of a parenthetical (default: 208)
	Parenthetical float64

	// Dialogue is the left edge of dialogue (default: 180)
	Dialogue float64

	// Tolerance is the allowed distance from a band (default: 14)
	Tolerance float64

	// TransitionX is the left edge at or beyond which a paragraph is a
	// transition (default: 370)
	TransitionX float64

	// CenterX is the page midline (default: 306, half of US Letter)
	CenterX float64

	// CenterTolerance is the allowed distance from the midline for centered
	// text (default: 16)
	CenterTolerance float64
}

// DefaultBands returns the positions used by US Letter screenplays
func DefaultBands() Bands {
	return Bands{
		Action:          108.0,
		SceneNumbered:   55.0,
		SceneUnnumbered: 108.0,
		Character:       252.0,
		Parenthetical:   208.0,
		Dialogue:        180.0,
		Tolerance:       14.0,
		TransitionX:     370.0,
		CenterX:         306.0,
		CenterTolerance: 16.0,
	}
}

// near reports whether x lies within Tolerance of target
func (b Bands) near(x, target float64) bool {
	return math.Abs(x-target) <= b.Tolerance
}

// centered reports whether a paragraph midpoint lies within
// CenterTolerance of the page midline
func (b Bands) centered(mid float64) bool {
	return math.Abs(mid-b.CenterX) <= b.CenterTolerance
}
