package text

import (
	"math"
)

// Vector is a baseline direction in page coordinates
type Vector struct {
	DX, DY float64
}

// Angle returns the absolute angle of the vector in degrees, folded into
// [0, 180). A zero vector has angle 0.
func (v Vector) Angle() float64 {
	if v.DX == 0 && v.DY == 0 {
		return 0
	}
	a := math.Abs(math.Atan2(v.DY, v.DX) * 180 / math.Pi)
	return math.Mod(a, 180)
}

// IsHorizontal reports whether the vector lies within tolDeg degrees of
// 0 or 180 degrees.
func (v Vector) IsHorizontal(tolDeg float64) bool {
	a := v.Angle()
	return a <= tolDeg || a >= 180-tolDeg
}

// DirectionBetween returns the vector pointing from (x0,y0) to (x1,y1).
// The boolean is false when the points coincide.
func DirectionBetween(x0, y0, x1, y1 float64) (Vector, bool) {
	dx, dy := x1-x0, y1-y0
	if dx == 0 && dy == 0 {
		return Vector{}, false
	}
	return Vector{DX: dx, DY: dy}, true
}
