package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ScanRecord is one entry of scan_history.json.
type ScanRecord struct {
	Timestamp  string `json:"timestamp"`
	Source     string `json:"source"`
	LeadsFound int    `json:"leads_found"`
}

// RecordScan appends one history entry and keeps the newest maxHistory.
// LeadsFound counts leads actually added, not raw finds, so the history
// tracks collection growth.
func (s *Store) RecordScan(now time.Time, source string, found int) error {
	history, err := s.History()
	if err != nil {
		return err
	}
	history = append(history, ScanRecord{
		Timestamp:  now.UTC().Format(time.RFC3339),
		Source:     source,
		LeadsFound: found,
	})
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	data, err := encodeJSON(history)
	if err != nil {
		return fmt.Errorf("save scan history: %w", err)
	}
	if err := writeAtomic(s.historyPath, data); err != nil {
		return fmt.Errorf("save scan history: %w", err)
	}
	return nil
}

// History returns the recorded scans, oldest first. Unlike the leads file,
// unparseable history is telemetry and resets to empty instead of failing
// the run.
func (s *Store) History() ([]ScanRecord, error) {
	data, err := os.ReadFile(s.historyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scan history: %w", err)
	}
	var history []ScanRecord
	_ = json.Unmarshal(data, &history)
	return history, nil
}
