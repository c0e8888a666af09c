package output

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dgallion1/omextract/internal/extract"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	position   INTEGER PRIMARY KEY,
	section    TEXT NOT NULL,
	subsection TEXT NOT NULL,
	content    TEXT NOT NULL
);`

// WriteSQLite stores records in the records table of the database at path,
// replacing any rows already there. position is the 1-based document order.
func WriteSQLite(ctx context.Context, path string, records []extract.Record) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=DELETE&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (position, section, subsection, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i+1, r.Section, r.Subsection, r.Content); err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadSQLite returns the records stored by WriteSQLite in position order.
func ReadSQLite(ctx context.Context, path string) ([]extract.Record, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT section, subsection, content FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []extract.Record
	for rows.Next() {
		var r extract.Record
		if err := rows.Scan(&r.Section, &r.Subsection, &r.Content); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
