package layout

import (
	"math"
	"testing"

	"github.com/tsawler/slugline/text"
)

// makeRun creates a test run for line tests
func makeRun(txt string, x, y, width float64) text.Run {
	return text.NewRun(txt, x, y, width, 12, 12)
}

func TestLineExtractor_EmptyPage(t *testing.T) {
	extractor := NewLineExtractor()
	lines := extractor.Extract(text.Page{Number: 3, Width: 612, Height: 792})

	if lines == nil {
		t.Fatal("Expected non-nil result")
	}
	if lines.Len() != 0 {
		t.Errorf("Expected 0 lines, got %d", lines.Len())
	}
	if lines.Number != 3 {
		t.Errorf("Expected page number 3, got %d", lines.Number)
	}
}

func TestLineExtractor_SingleLine_MultipleRuns(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Width: 612, Height: 792, Runs: []text.Run{
		makeRun("World", 145, 100, 45),
		makeRun("Hello", 100, 100, 40),
	}}

	lines := extractor.Extract(page)
	if lines.Len() != 1 {
		t.Fatalf("Expected 1 line, got %d", lines.Len())
	}

	line := lines.Lines[0]
	if line.Text != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", line.Text)
	}
	if line.OriginX != 100 || line.EndX != 190 {
		t.Errorf("Expected extent 100..190, got %v..%v", line.OriginX, line.EndX)
	}
	if line.FontSize != 12 {
		t.Errorf("Expected font size 12, got %v", line.FontSize)
	}
}

func TestLineExtractor_TouchingRunsNoSpace(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{
		makeRun("MAR", 252, 100, 21.6),
		makeRun("ÍA", 273.6, 100, 14.4),
	}}

	lines := extractor.Extract(page)
	if lines.Len() != 1 || lines.Lines[0].Text != "MARÍA" {
		t.Errorf("Expected single line 'MARÍA', got %q", lines.Text())
	}
}

func TestLineExtractor_DistantRunsSplit(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{
		makeRun("12", 55, 100, 14.4),
		makeRun("INT. HOUSE - DAY", 108, 100, 115.2),
		makeRun("12", 540, 100, 14.4),
	}}

	lines := extractor.Extract(page)
	if lines.Len() != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", lines.Len(), lines.Text())
	}
	if lines.Lines[0].Text != "12 INT. HOUSE - DAY" {
		t.Errorf("Expected '12 INT. HOUSE - DAY', got %q", lines.Lines[0].Text)
	}
	if lines.Lines[1].OriginX != 540 {
		t.Errorf("Expected second line at x=540, got %v", lines.Lines[1].OriginX)
	}
}

func TestLineExtractor_DropsRotatedRuns(t *testing.T) {
	extractor := NewLineExtractor()
	diagonal := makeRun("DRAFT", 200, 400, 100)
	diagonal.Direction = &text.Vector{DX: 1, DY: -1}
	nearlyFlat := makeRun("JOHN", 252, 200, 28.8)
	nearlyFlat.Direction = &text.Vector{DX: 1, DY: math.Tan(1 * math.Pi / 180)}

	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{diagonal, nearlyFlat}}
	lines := extractor.Extract(page)

	if lines.Len() != 1 || lines.Lines[0].Text != "JOHN" {
		t.Errorf("Expected only 'JOHN', got %q", lines.Text())
	}
}

func TestLineExtractor_EdgeMargins(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{
		makeRun("HEADER", 100, 30, 40),
		makeRun("BODY", 100, 50, 40),
		makeRun("BOTTOM", 100, 742, 40),
		makeRun("2.", 500, 760, 12),
	}}

	lines := extractor.Extract(page)
	got := lines.Text()
	if got != "BODY\nBOTTOM" {
		t.Errorf("Expected 'BODY\\nBOTTOM', got %q", got)
	}
}

func TestLineExtractor_DropsEmptyAfterCleaning(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{
		makeRun("***", 100, 100, 20),
		makeRun("\u200b", 100, 130, 5),
		makeRun("ACTION", 100, 160, 40),
	}}

	lines := extractor.Extract(page)
	if lines.Len() != 1 || lines.Lines[0].Text != "ACTION" {
		t.Errorf("Expected only 'ACTION', got %q", lines.Text())
	}
}

func TestLineExtractor_SortAndDedup(t *testing.T) {
	extractor := NewLineExtractor()
	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{
		makeRun("Second", 100, 130, 40),
		makeRun("First", 100, 100, 40),
		makeRun("First", 100.5, 100.02, 40), // overprinted duplicate
	}}

	lines := extractor.Extract(page)
	if lines.Len() != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", lines.Len(), lines.Text())
	}
	if lines.Lines[0].Text != "First" || lines.Lines[1].Text != "Second" {
		t.Errorf("Unexpected order: %q", lines.Text())
	}
}

func TestLineExtractor_SortedAndUnique(t *testing.T) {
	extractor := NewLineExtractor()
	var runs []text.Run
	for i := 0; i < 20; i++ {
		y := 700 - float64(i)*30
		runs = append(runs, makeRun("line", 108+float64(i%3)*72, y, 30))
		runs = append(runs, makeRun("line", 108+float64(i%3)*72, y, 30))
	}
	lines := extractor.Extract(text.Page{Number: 1, Height: 792, Runs: runs})

	seen := make(map[lineKey]bool)
	for i, l := range lines.Lines {
		if i > 0 {
			prev := lines.Lines[i-1]
			py, cy := roundY(prev.OriginY), roundY(l.OriginY)
			if py > cy || (py == cy && prev.OriginX > l.OriginX) {
				t.Errorf("Lines %d and %d out of order", i-1, i)
			}
		}
		key := lineKey{y: roundY(l.OriginY), text: l.Text}
		if seen[key] {
			t.Errorf("Duplicate line %v", key)
		}
		seen[key] = true
	}
	if lines.Len() != 20 {
		t.Errorf("Expected 20 lines, got %d", lines.Len())
	}
}

func TestLineExtractor_CustomConfig(t *testing.T) {
	config := DefaultLineConfig()
	config.EdgeMargin = 0
	extractor := NewLineExtractorWithConfig(config)

	page := text.Page{Number: 1, Height: 792, Runs: []text.Run{makeRun("TOP", 100, 10, 30)}}
	if lines := extractor.Extract(page); lines.Len() != 1 {
		t.Errorf("Expected 1 line with zero margin, got %d", lines.Len())
	}
	if extractor.Config().EdgeMargin != 0 {
		t.Error("Config() did not return the custom configuration")
	}
}

func TestDefaultLineConfig(t *testing.T) {
	config := DefaultLineConfig()
	if config.EdgeMargin != 50 || config.AngleTolerance != 2 || config.MaxRunGap != 4 {
		t.Errorf("Unexpected defaults: %+v", config)
	}
}

func TestPageLines_NilSafety(t *testing.T) {
	var p *PageLines
	if p.Len() != 0 || p.Text() != "" {
		t.Error("nil PageLines should be empty")
	}
}

func BenchmarkLineExtractor_Page(b *testing.B) {
	extractor := NewLineExtractor()

	var runs []text.Run
	y := 72.0
	for line := 0; line < 50; line++ {
		for word := 0; word < 10; word++ {
			runs = append(runs, makeRun("Word", 72+float64(word)*50, y, 40))
		}
		y += 14
	}
	page := text.Page{Number: 1, Width: 612, Height: 792, Runs: runs}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		extractor.Extract(page)
	}
}
