package text

import (
	"math"
	"testing"
)

func TestVectorAngle(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector
		expected float64
	}{
		{"zero", Vector{0, 0}, 0},
		{"right", Vector{1, 0}, 0},
		{"left", Vector{-1, 0}, 0},
		{"down", Vector{0, 1}, 90},
		{"up", Vector{0, -1}, 90},
		{"diagonal", Vector{1, 1}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Angle(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Angle() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVectorIsHorizontal(t *testing.T) {
	small := math.Tan(1 * math.Pi / 180)
	large := math.Tan(5 * math.Pi / 180)

	tests := []struct {
		name     string
		v        Vector
		expected bool
	}{
		{"exact right", Vector{1, 0}, true},
		{"exact left", Vector{-1, 0}, true},
		{"1 degree", Vector{1, small}, true},
		{"1 degree reversed", Vector{-1, small}, true},
		{"5 degrees", Vector{1, large}, false},
		{"vertical", Vector{0, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsHorizontal(2); got != tt.expected {
				t.Errorf("IsHorizontal(2) = %v, want %v (angle %.2f)", got, tt.expected, tt.v.Angle())
			}
		})
	}
}

func TestRunIsHorizontal(t *testing.T) {
	r := NewRun("WATERMARK", 100, 300, 200, 12, 12)
	if !r.IsHorizontal(2) {
		t.Error("run without direction should be horizontal")
	}

	r.Direction = &Vector{DX: 1, DY: 1}
	if r.IsHorizontal(2) {
		t.Error("45 degree run should not be horizontal")
	}
}

func TestDirectionBetween(t *testing.T) {
	if _, ok := DirectionBetween(10, 10, 10, 10); ok {
		t.Error("expected no direction for coincident points")
	}
	v, ok := DirectionBetween(10, 10, 40, 10)
	if !ok || v.DX != 30 || v.DY != 0 {
		t.Errorf("DirectionBetween() = %+v, %v", v, ok)
	}
}

func TestPageText(t *testing.T) {
	p := Page{Number: 1, Runs: []Run{
		NewRun("FADE IN:", 108, 72, 60, 12, 12),
		NewRun("INT. HOUSE - DAY", 108, 100, 120, 12, 12),
	}}
	if got := p.Text(); got != "FADE IN:\nINT. HOUSE - DAY" {
		t.Errorf("Text() = %q", got)
	}
	if p.IsEmpty() {
		t.Error("page with runs should not be empty")
	}
	if !(Page{}).IsEmpty() {
		t.Error("zero page should be empty")
	}
}
