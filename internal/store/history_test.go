package store

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordScan_AppendsNewestLast(t *testing.T) {
	s := newTestStore(t, 10)
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordScan(now, "reddit", 3))
	require.NoError(t, s.RecordScan(now.Add(time.Minute), "twitter", 0))

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ScanRecord{Timestamp: "2024-05-03T12:00:00Z", Source: "reddit", LeadsFound: 3}, history[0])
	assert.Equal(t, "twitter", history[1].Source)
	assert.Equal(t, 0, history[1].LeadsFound)
}

func TestStore_RecordScan_CapsHistory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{
		LeadsFile:   dir + "/leads.json",
		HistoryFile: dir + "/scan_history.json",
		MaxLeads:    10,
		MaxHistory:  3,
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	base := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordScan(base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("source%d", i), i))
	}

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 3)
	// Oldest entries rolled off the front.
	assert.Equal(t, "source2", history[0].Source)
	assert.Equal(t, "source4", history[2].Source)
}

func TestStore_History_CorruptFileResets(t *testing.T) {
	s := newTestStore(t, 10)
	require.NoError(t, os.WriteFile(s.HistoryPath(), []byte("not json"), 0o644))

	history, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, history)

	// Recording over corrupt telemetry starts a fresh file.
	require.NoError(t, s.RecordScan(time.Now(), "reddit", 1))
	history, err = s.History()
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
