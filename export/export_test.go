package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/slugline/classify"
	"github.com/tsawler/slugline/layout"
	"github.com/tsawler/slugline/model"
	"github.com/tsawler/slugline/reader"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{Page: 1, Text: "INT. HARBOR OFFICE - NIGHT", LeftX: 108, RightX: 295, StartY: 88, EndY: 88, LineCount: 1, Label: model.SceneHeading, Confidence: 0.9},
		{Page: 1, Text: "Rain hammers the windows.", LeftX: 108, RightX: 288, StartY: 112, EndY: 112, LineCount: 1, Label: model.Action, Confidence: 0.85},
		{Page: 1, Text: "MARÍA", LeftX: 252, RightX: 288, StartY: 136, EndY: 136, LineCount: 1, Label: model.Character, Confidence: 0.92},
		{Page: 1, Text: "(quietly)", LeftX: 208, RightX: 273, StartY: 148, EndY: 148, LineCount: 1, Label: model.Parenthetical, Confidence: 0.9},
		{Page: 1, Text: "We leave at dawn & not a <minute> later.", LeftX: 180, RightX: 420, StartY: 160, EndY: 172, LineCount: 2, Label: model.Dialogue, Confidence: 0.9},
		{Page: 1, Text: "CUT TO:", LeftX: 400, RightX: 450, StartY: 196, EndY: 196, LineCount: 1, Label: model.Transition, Confidence: 0.9},
		{Page: 2, Text: "2.", LeftX: 500, RightX: 514, StartY: 60, EndY: 60, LineCount: 1, Label: model.Number, Confidence: 0.9},
		{Page: 2, Text: "12 EXT. PIER - DAWN 12", LeftX: 55, RightX: 230, StartY: 88, EndY: 88, LineCount: 1, Label: model.SceneHeading, Confidence: 0.9},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"label": "Scene Heading"`,
		`"proba": 0.92`,
		`"lines_count": 2`,
		"MARÍA",
		"& not a <minute>",
		"\n  {\n    \"page\": 1,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteJSON() output missing %q", want)
		}
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(back) != len(sampleRecords()) || back[2].Text != "MARÍA" || back[2].Label != model.Character {
		t.Errorf("ReadJSON() = %+v", back)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	data, err := MarshalJSON(nil)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("MarshalJSON(nil) = %q, want []", data)
	}
	if err := Validate(data); err != nil {
		t.Errorf("Validate([]) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := ValidateRecords(sampleRecords()); err != nil {
		t.Errorf("ValidateRecords() error = %v", err)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"page": 1}`},
		{"unknown label", `[{"page":1,"text":"x","left_x":0,"right_x":1,"start_y":0,"end_y":0,"lines_count":1,"label":"Montage","proba":0.5}]`},
		{"page zero", `[{"page":0,"text":"x","left_x":0,"right_x":1,"start_y":0,"end_y":0,"lines_count":1,"label":"Action","proba":0.5}]`},
		{"proba above one", `[{"page":1,"text":"x","left_x":0,"right_x":1,"start_y":0,"end_y":0,"lines_count":1,"label":"Action","proba":1.5}]`},
		{"missing field", `[{"page":1,"text":"x","label":"Action","proba":0.5}]`},
		{"extra field", `[{"page":1,"text":"x","left_x":0,"right_x":1,"start_y":0,"end_y":0,"lines_count":1,"label":"Action","proba":0.5,"rule":"action"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidRecords) {
				t.Errorf("Validate() error = %v, want ErrInvalidRecords", err)
			}
		})
	}
}

func TestValidateMalformedJSON(t *testing.T) {
	err := Validate([]byte(`[{"page": `))
	if err == nil || errors.Is(err, ErrInvalidRecords) {
		t.Errorf("Validate(malformed) error = %v, want a parse error", err)
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	if err := WriteJSONFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(data); err != nil {
		t.Errorf("written file does not validate: %v", err)
	}

	bad := []model.Record{{Page: 1, Text: "", LineCount: 1}}
	if err := WriteJSONFile(filepath.Join(t.TempDir(), "bad.json"), bad); !errors.Is(err, ErrInvalidRecords) {
		t.Errorf("WriteJSONFile(empty text) error = %v, want ErrInvalidRecords", err)
	}
}

func TestSchemaCopy(t *testing.T) {
	s := Schema()
	s[0] = 'X'
	if Schema()[0] == 'X' {
		t.Error("Schema() exposes the embedded bytes")
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, "The Harbor <draft>", sampleRecords()); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>The Harbor &lt;draft&gt;</title>",
		`<section class="page" data-page="2">`,
		`<p class="scene-heading" data-label="Scene Heading" data-proba="0.90">`,
		"&amp; not a &lt;minute&gt; later.",
		"MARÍA",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteHTML() output missing %q", want)
		}
	}

	back, err := ReadHTML(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadHTML() error = %v", err)
	}
	want := sampleRecords()
	if len(back) != len(want) {
		t.Fatalf("ReadHTML() returned %d records, want %d", len(back), len(want))
	}
	for i := range want {
		if back[i].Page != want[i].Page || back[i].Text != want[i].Text || back[i].Label != want[i].Label {
			t.Errorf("record %d = %+v, want page %d %s %q", i, back[i], want[i].Page, want[i].Label, want[i].Text)
		}
		if back[i].Confidence != want[i].Confidence {
			t.Errorf("record %d confidence = %v, want %v", i, back[i].Confidence, want[i].Confidence)
		}
	}
}

func TestReadHTMLBadLabel(t *testing.T) {
	doc := `<section class="page" data-page="1"><p data-label="Montage">x</p></section>`
	if _, err := ReadHTML(strings.NewReader(doc)); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestWriteFountain(t *testing.T) {
	var buf bytes.Buffer
	opts := FountainOptions{Title: "The Harbor", Author: "A. Writer", PageBreaks: true}
	if err := WriteFountain(&buf, sampleRecords(), opts); err != nil {
		t.Fatalf("WriteFountain() error = %v", err)
	}

	want := `Title: The Harbor
Author: A. Writer

INT. HARBOR OFFICE - NIGHT

Rain hammers the windows.

MARÍA
(quietly)
We leave at dawn & not a <minute> later.

CUT TO:

===

EXT. PIER - DAWN #12#
`
	if got := buf.String(); got != want {
		t.Errorf("WriteFountain() =\n%s\nwant\n%s", got, want)
	}
}

func TestFountainForcing(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{"heading without prefix", model.Record{Label: model.SceneHeading, Text: "THE HOUSE - NIGHT"}, ".THE HOUSE - NIGHT\n"},
		{"numbered heading", model.Record{Label: model.SceneHeading, Text: "3A. INT. CAR - DAY"}, "INT. CAR - DAY #3A#\n"},
		{"mixed case cue", model.Record{Label: model.Character, Text: "McCLANE"}, "@McCLANE\n"},
		{"soft transition", model.Record{Label: model.Transition, Text: "FADE OUT."}, "> FADE OUT.\n"},
		{"end of act", model.Record{Label: model.EndOfAct, Text: "END OF ACT ONE"}, "> END OF ACT ONE <\n"},
		{"caps action", model.Record{Label: model.Action, Text: "BANG"}, "!BANG\n"},
		{"action like heading", model.Record{Label: model.Action, Text: "Ext. shots follow."}, "!Ext. shots follow.\n"},
		{"orphan dialogue", model.Record{Label: model.Dialogue, Text: "Hello."}, "Hello.\n"},
		{"page number dropped", model.Record{Label: model.Number, Text: "12."}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFountain(&buf, []model.Record{tt.rec}, FountainOptions{}); err != nil {
				t.Fatalf("WriteFountain() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WriteFountain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFountainKeepNumbers(t *testing.T) {
	var buf bytes.Buffer
	recs := []model.Record{{Label: model.Number, Text: "12."}}
	if err := WriteFountain(&buf, recs, FountainOptions{KeepNumbers: true}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[[12.]]\n" {
		t.Errorf("WriteFountain() = %q", got)
	}
}

func TestWritePDFReadsBack(t *testing.T) {
	recs := []model.Record{
		{Page: 1, Text: "INT. HARBOR OFFICE - NIGHT", Label: model.SceneHeading},
		{Page: 1, Text: "Rain hammers the windows.", Label: model.Action},
		{Page: 1, Text: "JOHN", Label: model.Character},
		{Page: 1, Text: "We leave at dawn.", Label: model.Dialogue},
		{Page: 1, Text: "CUT TO:", Label: model.Transition},
		{Page: 2, Text: "2.", Label: model.Number},
		{Page: 2, Text: "EXT. PIER - DAWN", Label: model.SceneHeading},
	}

	var buf bytes.Buffer
	opts := PDFOptions{Title: "The Harbor", PageBreaks: true, PageNumbers: true}
	if err := WritePDF(&buf, recs, opts); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}

	r, err := reader.OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("reader.OpenBytes() error = %v", err)
	}
	defer r.Close()

	if r.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", r.PageCount())
	}
	if got := r.Summary().Title; got != "The Harbor" {
		t.Errorf("Title = %q, want %q", got, "The Harbor")
	}

	page, err := r.Page(1)
	if err != nil {
		t.Fatalf("Page(1) error = %v", err)
	}
	lines := layout.NewLineExtractor().Extract(page)
	paras := layout.NewSegmenter().Segment(lines.Lines)
	results := classify.NewClassifier().Classify(paras)

	got := make(map[string]model.Label)
	for _, res := range results {
		got[res.Paragraph.Text] = res.Label
	}
	for text, want := range map[string]model.Label{
		"INT. HARBOR OFFICE - NIGHT": model.SceneHeading,
		"JOHN":                       model.Character,
		"We leave at dawn.":          model.Dialogue,
		"CUT TO:":                    model.Transition,
	} {
		if got[text] != want {
			t.Errorf("re-read %q as %s, want %s (all: %v)", text, got[text], want, got)
		}
	}
}
