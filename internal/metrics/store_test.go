package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-planner/internal/database"
	"grocery-planner/internal/shared"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db.SQL)
	s.now = func() time.Time { return now }
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.RecordSearch(shared.SearchMeta{Term: "mango", Outcome: shared.OutcomeSynthesized, Results: 8, Latency: 30 * time.Millisecond}))
	require.NoError(t, s.RecordSearch(shared.SearchMeta{Term: "mango", Outcome: shared.OutcomeCatalog, Results: 8, Latency: 10 * time.Millisecond}))
	require.NoError(t, s.Record(ctx, SearchMetric{Term: "oats", Outcome: shared.OutcomeLookup, Results: 3, LatencyMS: 200, Timestamp: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.Record(ctx, SearchMetric{Term: "old", Outcome: shared.OutcomeLookup, Results: 1, LatencyMS: 5, Timestamp: now.AddDate(0, 0, -40)}))

	t.Run("daily usage", func(t *testing.T) {
		usage, err := s.GetDailyUsage(ctx, 7)
		require.NoError(t, err)
		require.Len(t, usage, 2)

		assert.Equal(t, "2024-05-20", usage[0].Date)
		assert.Equal(t, 2, usage[0].Searches)
		assert.Equal(t, 1, usage[0].Catalog)
		assert.Equal(t, 1, usage[0].Synthesized)
		assert.Equal(t, 20.0, usage[0].AvgLatencyMS)

		assert.Equal(t, "2024-05-19", usage[1].Date)
		assert.Equal(t, 1, usage[1].Lookup)
	})

	t.Run("cleanup", func(t *testing.T) {
		n, err := s.Cleanup(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		usage, err := s.GetDailyUsage(ctx, 365)
		require.NoError(t, err)
		assert.Len(t, usage, 2)
	})
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.db"), make([]byte, 2048), 0o644))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.db-wal"), make([]byte, 1024), 0o644))

	h := GetSysHealth(dir)
	assert.Positive(t, h.Goroutines)
	assert.Equal(t, int64(3072), h.DataBytes)
	assert.Equal(t, "3.0 KiB", h.DataDiskSize)

	missing := GetSysHealth(filepath.Join(dir, "nope"))
	assert.Zero(t, missing.DataBytes)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(-5))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "3.0 MiB", FormatBytes(3*1024*1024))
	assert.Equal(t, "20 MiB", FormatBytes(20*1024*1024))
}
