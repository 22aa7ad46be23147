package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfoods/openfoods/internal/domain"
)

// repositories runs each test against every backend.
func repositories(t *testing.T) map[string]domain.FoodRepository {
	t.Helper()

	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "foods.db"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	return map[string]domain.FoodRepository{
		"memory": NewMemoryStore(),
		"bbolt":  bolt,
	}
}

func TestRepository_PutGetList(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed := DefaultSeed()

			// insert out of order; List must sort by id
			for i := len(seed) - 1; i >= 0; i-- {
				require.NoError(t, repo.Put(ctx, seed[i]))
			}
			require.NoError(t, repo.Put(ctx, domain.Food{ID: -1, Name: "negative"}))

			foods, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, foods, len(seed)+1)
			assert.Equal(t, -1, foods[0].ID)
			for i, f := range foods[1:] {
				assert.True(t, seed[i].Equal(f), "food %d differs", f.ID)
			}

			got, err := repo.Get(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, "Tacos al Pastor", got.Name)

			_, err = repo.Get(ctx, 404)
			assert.ErrorIs(t, err, domain.ErrFoodNotFound)
		})
	}
}

func TestRepository_SetLiked(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			food := DefaultSeed()[0]
			require.NoError(t, repo.Put(ctx, food))

			changed, err := repo.SetLiked(ctx, food.ID, true)
			require.NoError(t, err)
			assert.True(t, changed)

			got, err := repo.Get(ctx, food.ID)
			require.NoError(t, err)
			assert.True(t, got.IsLiked)
			assert.True(t, got.LastUpdatedDate.After(food.LastUpdatedDate))

			changed, err = repo.SetLiked(ctx, food.ID, true)
			require.NoError(t, err)
			assert.False(t, changed, "liking a liked food is not a change")

			changed, err = repo.SetLiked(ctx, food.ID, false)
			require.NoError(t, err)
			assert.True(t, changed)

			_, err = repo.SetLiked(ctx, 999, true)
			assert.ErrorIs(t, err, domain.ErrFoodNotFound)
		})
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, f := range DefaultSeed() {
		require.NoError(t, s.Put(ctx, f))
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetLiked(ctx, i%5+1, i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			s.List(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, s.Size())
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.db")
	ctx := context.Background()

	first, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, DefaultSeed()[1]))
	_, err = first.SetLiked(ctx, 2, true)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenBolt(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
}

func TestBoltStore_NilIsUnavailable(t *testing.T) {
	var b *BoltStore

	_, err := b.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NoError(t, b.Close())
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore("bbolt", " ")
	assert.Error(t, err)

	b, err := NewStore("BBolt", filepath.Join(t.TempDir(), "foods.db"))
	require.NoError(t, err)
	assert.IsType(t, &BoltStore{}, b)
	b.Close()

	_, err = NewStore("redis", "")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := Seed(ctx, s, DefaultSeed())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// a non-empty store is left untouched
	n, err = Seed(ctx, s, []domain.Food{{ID: 99}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 5, s.Size())
}

func TestLoadSeedFile(t *testing.T) {
	t.Run("empty path uses built-in seed", func(t *testing.T) {
		foods, err := LoadSeedFile("")
		require.NoError(t, err)
		assert.Len(t, foods, len(DefaultSeed()))
	})

	t.Run("reads wire format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.json")
		body := `[{"id":1,"name":"Sushi","isLiked":true,"photoURL":"https://x/y.png","description":"d","countryOfOrigin":"JP","lastUpdatedDate":"2024-05-03T10:00:00Z"}]`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		foods, err := LoadSeedFile(path)
		require.NoError(t, err)
		require.Len(t, foods, 1)
		assert.True(t, foods[0].IsLiked)
		assert.True(t, foods[0].LastUpdatedDate.Equal(time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := LoadSeedFile(path)
		assert.Error(t, err)
	})
}
