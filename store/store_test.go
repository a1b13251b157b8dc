package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/slugline/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{Page: 1, Text: "INT. HARBOR OFFICE - NIGHT", LeftX: 108, RightX: 295.2, StartY: 100, EndY: 112, LineCount: 1, Label: model.SceneHeading, Confidence: 1},
		{Page: 1, Text: "Rain hammers the windows.", LeftX: 108, RightX: 288, StartY: 124, EndY: 136, LineCount: 1, Label: model.Action, Confidence: 0.9},
		{Page: 1, Text: "JOHN", LeftX: 252, RightX: 280.8, StartY: 148, EndY: 160, LineCount: 1, Label: model.Character, Confidence: 0.95},
		{Page: 1, Text: "We sail at 100% dawn_tide.", LeftX: 180, RightX: 367.2, StartY: 160, EndY: 172, LineCount: 1, Label: model.Dialogue, Confidence: 0.8},
		{Page: 2, Text: "CUT TO:", LeftX: 400, RightX: 450.4, StartY: 100, EndY: 112, LineCount: 1, Label: model.Transition, Confidence: 0.6},
	}
}

func accentedRecords() []model.Record {
	return []model.Record{
		{Page: 1, Text: "MARÍA entra empapada.", LeftX: 108, RightX: 259.2, StartY: 100, EndY: 112, LineCount: 1, Label: model.Action, Confidence: 0.7},
		{Page: 1, Text: "Un ñandú cruza la calle.", LeftX: 108, RightX: 280.8, StartY: 124, EndY: 136, LineCount: 1, Label: model.Action, Confidence: 0.7},
	}
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "slugline.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, openTemp(t))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SLUGLINE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("SLUGLINE_TEST_PG_DSN not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, name := range []string{"harbor", "second", "acentos"} {
		_ = s.Delete(ctx, name)
	}
	exerciseStore(t, s)
}

// exerciseStore runs the same checks against any backend. It expects the
// store to hold no documents named harbor, second or acentos.
func exerciseStore(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	summary := model.Summary{Pages: 2, Title: "Harbor", Author: "A. Writer"}
	if _, err := s.Save(ctx, "harbor", summary, sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	doc, err := s.Document(ctx, "harbor")
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Title != "Harbor" || doc.Author != "A. Writer" || doc.Pages != 2 || doc.Records != 5 {
		t.Errorf("Document() = %+v", doc)
	}
	if doc.IndexedAt.IsZero() {
		t.Error("Document().IndexedAt is zero")
	}

	got, err := s.Records(ctx, "harbor")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	want := sampleRecords()
	if len(got) != len(want) {
		t.Fatalf("Records() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Records()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Saving again replaces rather than appends
	if _, err := s.Save(ctx, "harbor", summary, sampleRecords()[:2]); err != nil {
		t.Fatalf("Save() again error = %v", err)
	}
	if got, _ := s.Records(ctx, "harbor"); len(got) != 2 {
		t.Errorf("Records() after resave = %d records, want 2", len(got))
	}
	if _, err := s.Save(ctx, "harbor", summary, sampleRecords()); err != nil {
		t.Fatalf("Save() restore error = %v", err)
	}
	if _, err := s.Save(ctx, "second", model.Summary{Pages: 1}, sampleRecords()[2:3]); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}
	if _, err := s.Save(ctx, "acentos", model.Summary{Pages: 1}, accentedRecords()); err != nil {
		t.Fatalf("Save() acentos error = %v", err)
	}

	docs, err := s.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	names := map[string]bool{}
	for _, d := range docs {
		names[d.Name] = true
	}
	if !names["harbor"] || !names["second"] {
		t.Errorf("Documents() = %+v, want harbor and second", docs)
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"by label", Query{Document: "harbor", Labels: []model.Label{model.Character, model.Transition}}, []string{"JOHN", "CUT TO:"}},
		{"across documents", Query{Labels: []model.Label{model.Character}}, []string{"JOHN", "JOHN"}},
		{"page range", Query{Document: "harbor", FromPage: 2, ToPage: 2}, []string{"CUT TO:"}},
		{"text case-insensitive", Query{Document: "harbor", Text: "harbor office"}, []string{"INT. HARBOR OFFICE - NIGHT"}},
		{"percent is literal", Query{Document: "harbor", Text: "100%"}, []string{"We sail at 100% dawn_tide."}},
		{"underscore is literal", Query{Document: "harbor", Text: "n_t"}, []string{"We sail at 100% dawn_tide."}},
		{"wildcard does not match", Query{Document: "harbor", Text: "a_t"}, nil},
		{"lower accented finds upper", Query{Document: "acentos", Text: "maría"}, []string{"MARÍA entra empapada."}},
		{"upper accented finds lower", Query{Document: "acentos", Text: "ÑANDÚ"}, []string{"Un ñandú cruza la calle."}},
		{"accent is not dropped", Query{Document: "acentos", Text: "maria"}, nil},
		{"confidence", Query{Document: "harbor", MinConfidence: 0.9}, []string{"INT. HARBOR OFFICE - NIGHT", "Rain hammers the windows.", "JOHN"}},
		{"limit", Query{Document: "harbor", Limit: 1}, []string{"INT. HARBOR OFFICE - NIGHT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			var texts []string
			for _, h := range hits {
				texts = append(texts, h.Text)
			}
			if len(texts) != len(tt.want) {
				t.Fatalf("Query() = %q, want %q", texts, tt.want)
			}
			for i := range texts {
				if texts[i] != tt.want[i] {
					t.Errorf("Query()[%d] = %q, want %q", i, texts[i], tt.want[i])
				}
			}
		})
	}

	counts, err := s.CountByLabel(ctx, "harbor")
	if err != nil {
		t.Fatalf("CountByLabel() error = %v", err)
	}
	if counts[model.Character] != 1 || counts[model.Dialogue] != 1 || counts[model.Other] != 0 {
		t.Errorf("CountByLabel() = %v", counts)
	}

	if err := s.Delete(ctx, "second"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Document(ctx, "second"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Document() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "second"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
	if _, err := s.Records(ctx, "second"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Records() of missing document error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "acentos"); err != nil {
		t.Fatalf("Delete() acentos error = %v", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "slugline.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if _, err := s.Save(ctx, "harbor", model.Summary{Pages: 2}, sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(ctx, "sqlite", path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	v, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != schemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", v, schemaVersion)
	}
	if s.Driver() != "sqlite" {
		t.Errorf("Driver() = %q, want %q", s.Driver(), "sqlite")
	}

	got, err := s.Records(ctx, "harbor")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("Records() after reopen = %d records, want 5", len(got))
	}
}

func TestSQLiteMigrateFoldedText(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "slugline.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if _, err := s.Save(ctx, "acentos", model.Summary{Pages: 1}, accentedRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Put the database back at schema 2, before folded existed
	for _, q := range []string{
		`ALTER TABLE records DROP COLUMN folded`,
		`UPDATE version SET schema=2 WHERE id=1`,
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer s.Close()

	if v, _ := s.SchemaVersion(ctx); v != schemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", v, schemaVersion)
	}
	hits, err := s.Query(ctx, Query{Text: "maría"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Text != "MARÍA entra empapada." {
		t.Errorf("Query(maría) = %+v, want the MARÍA record", hits)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MARÍA", "maría"},
		{"ÑANDÚ", "ñandú"},
		{"STRASSE", "strasse"},
		{"100%", "100%"},
	}
	for _, tt := range tests {
		if got := fold(tt.in); got != tt.want {
			t.Errorf("fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, "mysql", "x"); err == nil {
		t.Error("Open(mysql) succeeded, want error")
	}
	if _, err := OpenSQLite(ctx, "  "); err == nil {
		t.Error("OpenSQLite(blank) succeeded, want error")
	}
	s := openTemp(t)
	if _, err := s.Save(ctx, "", model.Summary{}, nil); err == nil {
		t.Error("Save() with empty name succeeded, want error")
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		d    dialect
		in   string
		want string
	}{
		{sqliteDialect, "a = ? AND b = ?", "a = ? AND b = ?"},
		{postgresDialect, "a = ? AND b = ?", "a = $1 AND b = $2"},
		{postgresDialect, "no params", "no params"},
	}
	for _, tt := range tests {
		if got := tt.d.rebind(tt.in); got != tt.want {
			t.Errorf("%s.rebind(%q) = %q, want %q", tt.d.name, tt.in, got, tt.want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
