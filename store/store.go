package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	// Postgres driver registered as "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	"github.com/tsawler/slugline/model"
)

// ErrNotFound is returned when a named document is not in the store.
var ErrNotFound = errors.New("document not found")

// Document describes an indexed screenplay.
type Document struct {
	ID        int64
	Name      string
	Title     string
	Author    string
	Pages     int
	Records   int
	IndexedAt time.Time
}

// Hit is a record found by a query, with the document it belongs to.
type Hit struct {
	Document string
	model.Record
}

// Query selects records. Zero fields do not filter.
type Query struct {
	// Document restricts the search to one document by name
	Document string

	// Labels keeps records with any of these labels
	Labels []model.Label

	// FromPage and ToPage bound the page range, inclusive
	FromPage int
	ToPage   int

	// Text is a substring of the record text, matched under Unicode case folding
	Text string

	// MinConfidence drops records classified below it
	MinConfidence float64

	// Limit caps the number of hits
	Limit int
}

// Store is a record store over a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  zerolog.Logger
}

// OpenSQLite opens or creates a SQLite store at path, enables WAL mode
// and brings the schema up to date.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	// Convert to forward slashes for the SQLite URI
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer for an embedded database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	return open(ctx, db, sqliteDialect)
}

// OpenPostgres connects to a PostgreSQL database and brings the schema up
// to date.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return open(ctx, db, postgresDialect)
}

// Open opens a store by driver name, "sqlite" or "postgres". For sqlite
// the source is a file path, for postgres a DSN.
func Open(ctx context.Context, driver, source string) (*Store, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3", "":
		return OpenSQLite(ctx, source)
	case "postgres", "postgresql", "pgx":
		return OpenPostgres(ctx, source)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func open(ctx context.Context, db *sql.DB, d dialect) (*Store, error) {
	if err := ensureSchema(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, dialect: d, logger: zerolog.Nop()}, nil
}

// WithLogger sets the logger used for store diagnostics.
func (s *Store) WithLogger(logger zerolog.Logger) *Store {
	s.logger = logger.With().Str("store", s.dialect.name).Logger()
	return s
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns "sqlite" or "postgres".
func (s *Store) Driver() string {
	return s.dialect.name
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// Save stores the records of a document under name, replacing any
// previous version of it. Records keep their order.
func (s *Store) Save(ctx context.Context, name string, summary model.Summary, records []model.Record) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("document name is required")
	}
	d := s.dialect

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteDocument(ctx, tx, d, name); err != nil && !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	var id int64
	q := d.rebind(`INSERT INTO documents (name, title, author, pages, indexed_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	now := time.Now().UTC().Format(time.RFC3339)
	if err := tx.QueryRowContext(ctx, q, name, summary.Title, summary.Author, summary.Pages, now).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, d.rebind(`INSERT INTO records
		(document_id, seq, page, text, folded, left_x, right_x, start_y, end_y, lines_count, label, proba)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, id, i, r.Page, r.Text, fold(r.Text), r.LeftX, r.RightX,
			r.StartY, r.EndY, r.LineCount, r.Label.String(), r.Confidence); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}

	s.logger.Debug().Str("document", name).Int("records", len(records)).Msg("document saved")
	return id, nil
}

// Delete removes a document and its records.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteDocument(ctx, tx, s.dialect, name); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteDocument(ctx context.Context, tx *sql.Tx, d dialect, name string) error {
	var id int64
	err := tx.QueryRowContext(ctx, d.rebind(`SELECT id FROM documents WHERE name = ?`), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("find document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM records WHERE document_id = ?`), id); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM documents WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

const documentColumns = `d.id, d.name, d.title, d.author, d.pages, d.indexed_at,
	(SELECT COUNT(*) FROM records r WHERE r.document_id = d.id)`

// Documents lists the stored documents by name.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents d ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Document returns one stored document.
func (s *Store) Document(ctx context.Context, name string) (Document, error) {
	q := s.dialect.rebind(`SELECT ` + documentColumns + ` FROM documents d WHERE d.name = ?`)
	doc, err := scanDocument(s.db.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return doc, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (Document, error) {
	var doc Document
	var indexed string
	if err := sc.Scan(&doc.ID, &doc.Name, &doc.Title, &doc.Author, &doc.Pages, &indexed, &doc.Records); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, err
		}
		return doc, fmt.Errorf("scan document: %w", err)
	}
	doc.IndexedAt, _ = time.Parse(time.RFC3339, indexed)
	return doc, nil
}

// Records returns all records of a document in their original order.
func (s *Store) Records(ctx context.Context, name string) ([]model.Record, error) {
	if _, err := s.Document(ctx, name); err != nil {
		return nil, err
	}
	hits, err := s.Query(ctx, Query{Document: name})
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, len(hits))
	for i, h := range hits {
		records[i] = h.Record
	}
	return records, nil
}

// Query returns the records matching q, ordered by document, page and
// position.
func (s *Store) Query(ctx context.Context, q Query) ([]Hit, error) {
	var where []string
	var args []any

	if q.Document != "" {
		where = append(where, "d.name = ?")
		args = append(args, q.Document)
	}
	if len(q.Labels) > 0 {
		marks := make([]string, len(q.Labels))
		for i, l := range q.Labels {
			marks[i] = "?"
			args = append(args, l.String())
		}
		where = append(where, "r.label IN ("+strings.Join(marks, ", ")+")")
	}
	if q.FromPage > 0 {
		where = append(where, "r.page >= ?")
		args = append(args, q.FromPage)
	}
	if q.ToPage > 0 {
		where = append(where, "r.page <= ?")
		args = append(args, q.ToPage)
	}
	if q.Text != "" {
		where = append(where, `r.folded LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(fold(q.Text))+"%")
	}
	if q.MinConfidence > 0 {
		where = append(where, "r.proba >= ?")
		args = append(args, q.MinConfidence)
	}

	sqlText := `SELECT d.name, r.page, r.text, r.left_x, r.right_x, r.start_y, r.end_y,
		r.lines_count, r.label, r.proba
		FROM records r JOIN documents d ON d.id = r.document_id`
	if len(where) > 0 {
		sqlText += " WHERE " + strings.Join(where, " AND ")
	}
	sqlText += " ORDER BY d.name, r.page, r.seq"
	if q.Limit > 0 {
		sqlText += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(sqlText), args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var label string
		if err := rows.Scan(&h.Document, &h.Page, &h.Text, &h.LeftX, &h.RightX, &h.StartY, &h.EndY,
			&h.LineCount, &label, &h.Confidence); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		h.Label, err = model.ParseLabel(label)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// CountByLabel tallies the records of a document per label.
func (s *Store) CountByLabel(ctx context.Context, name string) (map[model.Label]int, error) {
	if _, err := s.Document(ctx, name); err != nil {
		return nil, err
	}
	q := s.dialect.rebind(`SELECT r.label, COUNT(*) FROM records r
		JOIN documents d ON d.id = r.document_id
		WHERE d.name = ? GROUP BY r.label`)
	rows, err := s.db.QueryContext(ctx, q, name)
	if err != nil {
		return nil, fmt.Errorf("count labels: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Label]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		l, err := model.ParseLabel(label)
		if err != nil {
			return nil, err
		}
		counts[l] = n
	}
	return counts, rows.Err()
}

// escapeLike escapes LIKE wildcards with a backslash
// fold case-folds s for text search, so "maría" finds "MARÍA"
func fold(s string) string {
	return cases.Fold().String(s)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
