package slugline

import (
	"reflect"
	"testing"

	"github.com/tsawler/slugline/model"
)

func rec(page int, label model.Label, s string) model.Record {
	return model.Record{Page: page, Label: label, Text: s}
}

func TestGroupScenes(t *testing.T) {
	records := []model.Record{
		rec(1, model.Other, "FADE IN:"),
		rec(1, model.SceneHeading, "INT. HARBOR OFFICE - NIGHT"),
		rec(1, model.Character, "JOHN"),
		rec(1, model.Dialogue, "We leave at dawn."),
		rec(2, model.SceneHeading, "EXT. PIER - DAWN"),
		rec(2, model.Character, "MARÍA (V.O.)"),
		rec(2, model.Dialogue, "Too late."),
		rec(2, model.Character, "JOHN (CONT'D)"),
		rec(2, model.Character, "MARÍA"),
	}

	scenes := GroupScenes(records)
	if len(scenes) != 3 {
		t.Fatalf("GroupScenes() = %d scenes, want 3", len(scenes))
	}

	if scenes[0].Heading.Text != "" || len(scenes[0].Elements) != 1 {
		t.Errorf("scenes[0] = %+v, want untitled scene with one element", scenes[0])
	}
	if scenes[0].Page() != 1 {
		t.Errorf("scenes[0].Page() = %d, want 1", scenes[0].Page())
	}
	if scenes[2].Heading.Text != "EXT. PIER - DAWN" || scenes[2].Page() != 2 {
		t.Errorf("scenes[2] heading = %q page %d", scenes[2].Heading.Text, scenes[2].Page())
	}
	if len(scenes[1].Elements) != 2 {
		t.Errorf("scenes[1] has %d elements, want 2", len(scenes[1].Elements))
	}

	want := []string{"MARÍA", "JOHN"}
	if got := scenes[2].Characters(); !reflect.DeepEqual(got, want) {
		t.Errorf("Characters() = %v, want %v", got, want)
	}
}

func TestGroupScenesEmpty(t *testing.T) {
	if got := GroupScenes(nil); len(got) != 0 {
		t.Errorf("GroupScenes(nil) = %v, want none", got)
	}
	if got := (Scene{}).Page(); got != 0 {
		t.Errorf("empty Scene.Page() = %d, want 0", got)
	}
}

func TestCueName(t *testing.T) {
	tests := []struct {
		cue  string
		want string
	}{
		{"JOHN", "JOHN"},
		{"JOHN (V.O.)", "JOHN"},
		{"MARÍA (CONT'D)", "MARÍA"},
		{"  DR. WHO:  ", "DR. WHO"},
		{"(O.S.)", "(O.S.)"},
	}

	for _, tt := range tests {
		if got := CueName(tt.cue); got != tt.want {
			t.Errorf("CueName(%q) = %q, want %q", tt.cue, got, tt.want)
		}
	}
}

func TestCountCharacters(t *testing.T) {
	records := []model.Record{
		rec(1, model.Character, "JOHN"),
		rec(1, model.Character, "ANNA"),
		rec(1, model.Dialogue, "JOHN"),
		rec(2, model.Character, "JOHN (CONT'D)"),
		rec(2, model.Character, "BEN"),
	}

	want := []CharacterCount{
		{Name: "JOHN", Cues: 2},
		{Name: "ANNA", Cues: 1},
		{Name: "BEN", Cues: 1},
	}
	if got := CountCharacters(records); !reflect.DeepEqual(got, want) {
		t.Errorf("CountCharacters() = %v, want %v", got, want)
	}
}
