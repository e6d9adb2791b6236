package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grocery.db")

	db, err := NewDB(path, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"cart_lines", "recipes", "search_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}

	t.Run("migrations are idempotent", func(t *testing.T) {
		assert.NoError(t, RunMigrations(path, nil))
	})
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 17, 4, 5, 999, time.FixedZone("X", 3600))

	s := FormatTime(ts)
	assert.Equal(t, "2024-03-09 16:04:05", s)
	assert.True(t, ParseTime(s).Equal(ts.Truncate(time.Second)))
	assert.True(t, ParseTime("garbage").IsZero())
}
