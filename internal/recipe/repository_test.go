package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-planner/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL, nil)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	rec := &Recipe{
		Title:       "Shakshuka",
		Ingredients: []string{"egg", "tomato", "pepper"},
		SourceURL:   "https://example.test/shakshuka",
	}
	require.NoError(t, repo.Save(ctx, rec))
	require.NotEmpty(t, rec.ID)
	assert.False(t, rec.ImportedAt.IsZero())

	t.Run("Get", func(t *testing.T) {
		got, err := repo.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Shakshuka", got.Title)
		assert.Equal(t, rec.Ingredients, got.Ingredients)

		missing, err := repo.Get(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("re-import keeps id", func(t *testing.T) {
		again := &Recipe{Title: "Shakshuka v2", SourceURL: rec.SourceURL}
		require.NoError(t, repo.Save(ctx, again))
		assert.Equal(t, rec.ID, again.ID)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("List and Delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &Recipe{Title: "Dal", SourceURL: "https://example.test/dal"}))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		require.NoError(t, repo.Delete(ctx, rec.ID))
		require.NoError(t, repo.Delete(ctx, "unknown"))
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("requires source url", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, &Recipe{Title: "Nowhere"}))
	})
}
