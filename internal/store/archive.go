package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"leadhunter/internal/domain"
)

// Archive keeps every lead ever seen, unaffected by the JSON cap. Dashboard
// owned fields (contacted, notes) are deliberately not archived; the archive
// is append-only discovery history, not working state.
type Archive struct {
	db *sql.DB
}

func OpenArchive(path string) (*Archive, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite wants a single writer

	if err := migrateArchive(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func migrateArchive(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  source_name TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  author TEXT NOT NULL DEFAULT '',
  timestamp TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '[]',
  intent TEXT NOT NULL,
  budget TEXT NOT NULL DEFAULT '',
  score INTEGER NOT NULL DEFAULT 0,
  archived_at TEXT NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}
	return nil
}

// InsertIgnore archives a lead, reporting whether it was new to the archive.
func (a *Archive) InsertIgnore(ctx context.Context, l domain.Lead) (added bool, err error) {
	tags, _ := json.Marshal(l.Tags)
	_, err = a.db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads (id, source, source_name, title, description, url, author, timestamp, tags, intent, budget, score, archived_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		l.ID, string(l.Source), l.SourceName, l.Title, l.Description, l.URL, l.Author,
		l.Timestamp, string(tags), string(l.Intent), l.Budget, l.Score,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("archive lead %s: %w", l.ID, err)
	}

	// INSERT OR IGNORE doesn't report rows affected reliably across
	// drivers; ask sqlite directly.
	var changes int
	if e := a.db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// Count reports how many leads the archive holds.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count archive: %w", err)
	}
	return n, nil
}

func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
