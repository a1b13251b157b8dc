package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// schemaVersion tracks the store schema. Bump this when you change the
// schema and add a migration step.
const schemaVersion = 3

// appName is recorded in the version row
const appName = "slugline"

// dialect holds what differs between the backends
type dialect struct {
	name string

	// idColumn is the auto-increment primary key definition
	idColumn string

	// refType is the type of columns referencing an id
	refType string

	// realType is the floating point column type
	realType string

	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

var (
	sqliteDialect = dialect{
		name:     "sqlite",
		idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT",
		refType:  "INTEGER",
		realType: "REAL",
	}
	postgresDialect = dialect{
		name:     "postgres",
		idColumn: "BIGSERIAL PRIMARY KEY",
		refType:  "BIGINT",
		realType: "DOUBLE PRECISION",
		numbered: true,
	}
)

// rebind rewrites ? placeholders for dialects with numbered ones
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	out := make([]byte, 0, len(q)+8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, q[i])
	}
	return string(out)
}

func (d dialect) baseSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id          ` + d.idColumn + `,
			name        TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL DEFAULT '',
			author      TEXT NOT NULL DEFAULT '',
			pages       INTEGER NOT NULL DEFAULT 0,
			indexed_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id           ` + d.idColumn + `,
			document_id  ` + d.refType + ` NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			seq          INTEGER NOT NULL,
			page         INTEGER NOT NULL,
			text         TEXT NOT NULL,
			left_x       ` + d.realType + ` NOT NULL,
			right_x      ` + d.realType + ` NOT NULL,
			start_y      ` + d.realType + ` NOT NULL,
			end_y        ` + d.realType + ` NOT NULL,
			lines_count  INTEGER NOT NULL,
			label        TEXT NOT NULL,
			proba        ` + d.realType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doc_page ON records(document_id, page, seq)`,
	}
}

// migrations holds the statements that bring schema n-1 to n
func (d dialect) migrations() map[int][]string {
	return map[int][]string{
		2: {
			`CREATE INDEX IF NOT EXISTS idx_records_label ON records(label)`,
		},
		// folded holds the case-folded text searched by Query. Neither
		// SQLite LIKE nor lower() fold beyond ASCII.
		3: {
			`ALTER TABLE records ADD COLUMN folded TEXT NOT NULL DEFAULT ''`,
		},
	}
}

// backfills run after the statements of the same step
var backfills = map[int]func(ctx context.Context, tx *sql.Tx, d dialect) error{
	3: refold,
}

// refold fills folded for records written before it existed
func refold(ctx context.Context, tx *sql.Tx, d dialect) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, text FROM records`)
	if err != nil {
		return err
	}
	folded := map[int64]string{}
	for rows.Next() {
		var id int64
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			rows.Close()
			return err
		}
		folded[id] = fold(text)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	q := d.rebind(`UPDATE records SET folded = ? WHERE id = ?`)
	for id, f := range folded {
		if _, err := tx.ExecContext(ctx, q, f, id); err != nil {
			return err
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB, d dialect) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
	}
	ddl = append(ddl, d.baseSchema()...)
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// Seed or update the single version row. A fresh database starts at
	// schema 1 and migrates forward like an old one.
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		q := d.rebind(`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`)
		if _, err := db.ExecContext(ctx, q, 1, appName, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		q := d.rebind(`UPDATE version SET app=?, updated_at=? WHERE id=1`)
		if _, err := db.ExecContext(ctx, q, appName, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB, d dialect) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Written by a newer release; do not downgrade
		return nil
	}

	steps := d.migrations()
	for cur < schemaVersion {
		next := cur + 1
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range steps[next] {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if fill, ok := backfills[next]; ok {
			if err := fill(ctx, tx, d); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d backfill: %w", next, err)
			}
		}
		q := d.rebind(`UPDATE version SET schema=?, updated_at=? WHERE id=1`)
		if _, err := tx.ExecContext(ctx, q, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}
