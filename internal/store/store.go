// Package store persists the lead collection the dashboard reads: a bounded,
// most-recent-first JSON array, a scan history sidecar and an optional
// SQLite archive of every lead ever seen.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"leadhunter/internal/domain"
)

var (
	// ErrCorrupt marks a leads file that exists but cannot be parsed. The
	// run must stop: saving over it would destroy dashboard data.
	ErrCorrupt = errors.New("leads file corrupt")

	// ErrLocked means another run holds the store lock.
	ErrLocked = errors.New("store locked by another run")
)

type Options struct {
	LeadsFile   string
	HistoryFile string
	MaxLeads    int
	MaxHistory  int
}

// Store owns the lead files for the duration of a run.
type Store struct {
	path        string
	historyPath string
	maxLeads    int
	maxHistory  int
	lock        *flock.Flock
}

// Open takes the store lock and fails fast with ErrLocked if another run
// holds it. The lock lives in a sidecar file because the data file itself
// gets renamed over on save. Pair every Open with Close.
func Open(o Options) (*Store, error) {
	if o.MaxLeads <= 0 {
		return nil, fmt.Errorf("open store: max leads must be positive, got %d", o.MaxLeads)
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = 100
	}
	if err := os.MkdirAll(filepath.Dir(o.LeadsFile), 0o755); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	lock := flock.New(o.LeadsFile + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return &Store{
		path:        o.LeadsFile,
		historyPath: o.HistoryFile,
		maxLeads:    o.MaxLeads,
		maxHistory:  o.MaxHistory,
		lock:        lock,
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

func (s *Store) LeadsPath() string   { return s.path }
func (s *Store) HistoryPath() string { return s.historyPath }

// Load reads the collection. A missing file is the normal first-run state
// and yields an empty collection; a file that exists but will not parse
// yields ErrCorrupt.
func (s *Store) Load() ([]domain.Lead, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	var leads []domain.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", s.path, ErrCorrupt, err)
	}
	return leads, nil
}

// Merge dedupes incoming against existing by id, and by url where both
// sides have one, then prepends the survivors in batch order and truncates
// to the cap from the tail. Surviving entries are never modified, so
// dashboard-owned fields (contacted, notes) ride through untouched.
// Merging the same batch twice adds nothing the second time.
func (s *Store) Merge(existing, incoming []domain.Lead) (merged, added []domain.Lead) {
	seenID := make(map[string]bool, len(existing))
	seenURL := make(map[string]bool, len(existing))
	for _, l := range existing {
		seenID[l.ID] = true
		if l.URL != "" {
			seenURL[l.URL] = true
		}
	}

	for _, l := range incoming {
		if seenID[l.ID] || (l.URL != "" && seenURL[l.URL]) {
			continue
		}
		seenID[l.ID] = true
		if l.URL != "" {
			seenURL[l.URL] = true
		}
		added = append(added, l)
	}

	merged = make([]domain.Lead, 0, len(added)+len(existing))
	merged = append(merged, added...)
	merged = append(merged, existing...)
	if len(merged) > s.maxLeads {
		merged = merged[:s.maxLeads]
	}
	return merged, added
}

// Save writes the collection atomically: temp file in the same directory,
// then rename, so a crash mid-write never leaves a partial file. The output
// is pretty-printed with HTML escaping off; the file is data for the
// dashboard, not markup.
func (s *Store) Save(leads []domain.Lead) error {
	if leads == nil {
		leads = []domain.Lead{}
	}
	data, err := encodeJSON(leads)
	if err != nil {
		return fmt.Errorf("save leads: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("save leads: %w", err)
	}
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
