package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/slugline/model"
)

func TestDefaultLabelIndex(t *testing.T) {
	li := DefaultLabelIndex()
	if li.Len() != 10 {
		t.Fatalf("Expected 10 labels, got %d", li.Len())
	}
	if li.Name(0) != "Scene Heading" {
		t.Errorf("Name(0) = %q, want Scene Heading", li.Name(0))
	}
	if li.ID(model.Other) != 9 {
		t.Errorf("ID(Other) = %d, want 9", li.ID(model.Other))
	}
	if li.Name(42) != "" || li.Name(-1) != "" {
		t.Error("out of range ids should have no name")
	}
}

func TestLabelIndex_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		label  model.Label
		want   int
	}{
		{"present", []string{"Dialogue", "Other", "Action"}, model.Action, 2},
		{"missing falls back to Other", []string{"Dialogue", "Other"}, model.Shot, 1},
		{"missing without Other falls back to 0", []string{"Dialogue", "Action"}, model.Shot, 0},
		{"duplicates keep first", []string{"Action", "Action", "Other"}, model.Action, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLabelIndex(tt.labels).ID(tt.label); got != tt.want {
				t.Errorf("ID(%v) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestLoadLabels(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		li, err := LoadLabels(t.TempDir())
		if err != nil {
			t.Fatalf("LoadLabels() error = %v", err)
		}
		if li.Len() != len(model.Labels()) {
			t.Errorf("Expected default index, got %v", li.Names())
		}
	})

	t.Run("custom list", func(t *testing.T) {
		dir := t.TempDir()
		data := []byte(`["Other", "Scene Heading", "Character", "Diálogo"]`)
		if err := os.WriteFile(filepath.Join(dir, LabelsFile), data, 0o644); err != nil {
			t.Fatal(err)
		}

		li, err := LoadLabels(dir)
		if err != nil {
			t.Fatalf("LoadLabels() error = %v", err)
		}
		if li.Len() != 4 || li.Name(3) != "Diálogo" {
			t.Errorf("Unexpected labels %v", li.Names())
		}
		if li.ID(model.Character) != 2 || li.ID(model.Dialogue) != 0 {
			t.Errorf("Unexpected ids: Character=%d Dialogue=%d", li.ID(model.Character), li.ID(model.Dialogue))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, LabelsFile), []byte(`{"not": "a list"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadLabels(dir); err == nil {
			t.Error("expected error for malformed labels file")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, LabelsFile), []byte(`[]`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadLabels(dir); err == nil {
			t.Error("expected error for empty label list")
		}
	})
}

func TestLabelIndex_NamesIsCopy(t *testing.T) {
	li := NewLabelIndex([]string{"Other"})
	names := li.Names()
	names[0] = "changed"
	if li.Name(0) != "Other" {
		t.Error("Names() must return a copy")
	}
}
