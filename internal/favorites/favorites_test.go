package favorites

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
	tu "github.com/desertthunder/courtside/internal/testing"
)

func newStore(t *testing.T, storage Storage) (*Store, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	store, err := Load(storage, logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store, &buf
}

func TestLoad(t *testing.T) {
	t.Run("missing key starts empty", func(t *testing.T) {
		store, _ := newStore(t, tu.NewMemoryStorage())
		assert.Empty(t, store.All())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("hydrates stored ids and collapses duplicates", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		require.NoError(t, storage.SetItem(StorageKey, `["b","a","b"]`))

		store, _ := newStore(t, storage)
		assert.Equal(t, []string{"a", "b"}, store.All())
	})

	t.Run("unreadable payload logs warning and starts empty", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		require.NoError(t, storage.SetItem(StorageKey, `{not json`))

		store, buf := newStore(t, storage)
		assert.Empty(t, store.All())
		assert.Contains(t, buf.String(), "unreadable favorites payload")
	})

	t.Run("read failure is returned", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		storage.GetErr = errors.New("disk gone")

		_, err := Load(storage, log.New(&bytes.Buffer{}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrStorage))
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		store, err := Load(tu.NewMemoryStorage(), nil)
		require.NoError(t, err)
		defer store.Close()
		assert.NotNil(t, store.logger)
	})
}

func TestToggle(t *testing.T) {
	t.Run("adds then removes", func(t *testing.T) {
		store, _ := newStore(t, tu.NewMemoryStorage())

		assert.True(t, store.Toggle("m1"))
		assert.True(t, store.IsFavorite("m1"))

		assert.False(t, store.Toggle("m1"))
		assert.False(t, store.IsFavorite("m1"))
	})

	t.Run("double toggle restores original set", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		require.NoError(t, storage.SetItem(StorageKey, `["x","y"]`))
		store, _ := newStore(t, storage)

		before := store.All()
		for _, id := range []string{"x", "z", "y"} {
			store.Toggle(id)
			store.Toggle(id)
		}
		assert.Equal(t, before, store.All())
	})

	t.Run("persists after flush", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		store, _ := newStore(t, storage)

		store.Toggle("b")
		store.Toggle("a")
		store.Flush()

		raw, ok, err := storage.GetItem(StorageKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `["a","b"]`, raw)
	})

	t.Run("write failure is logged and state kept", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		storage.SetErr = errors.New("read-only")
		store, buf := newStore(t, storage)

		assert.True(t, store.Toggle("m1"))
		store.Flush()

		assert.True(t, store.IsFavorite("m1"))
		assert.Contains(t, buf.String(), "failed to persist favorites")
	})
}

// slowStorage records every payload and takes a while to write it.
type slowStorage struct {
	*tu.MemoryStorage

	mu       sync.Mutex
	delay    time.Duration
	payloads []string
}

func (s *slowStorage) SetItem(key, value string) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	s.payloads = append(s.payloads, value)
	s.mu.Unlock()
	return s.MemoryStorage.SetItem(key, value)
}

func TestEveryMutationIsWritten(t *testing.T) {
	t.Run("toggles during a slow write each get their own write", func(t *testing.T) {
		storage := &slowStorage{MemoryStorage: tu.NewMemoryStorage(), delay: 20 * time.Millisecond}
		store, _ := newStore(t, storage)

		for range 5 {
			store.Toggle("A")
		}
		store.Flush()

		assert.Equal(t, 5, storage.Writes())
		assert.Equal(t, []string{`["A"]`, `[]`, `["A"]`, `[]`, `["A"]`}, storage.payloads)
	})

	t.Run("clear is written after pending toggles", func(t *testing.T) {
		storage := &slowStorage{MemoryStorage: tu.NewMemoryStorage(), delay: 10 * time.Millisecond}
		store, _ := newStore(t, storage)

		store.Toggle("a")
		store.Toggle("b")
		store.Clear()
		store.Flush()

		assert.Equal(t, []string{`["a"]`, `["a","b"]`, `[]`}, storage.payloads)
	})
}

func TestReload(t *testing.T) {
	storage := tu.NewMemoryStorage()

	first, err := Load(storage, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	first.Toggle("X")
	first.Toggle("Y")
	first.Close()

	second, _ := newStore(t, storage)
	assert.True(t, second.IsFavorite("X"))
	assert.True(t, second.IsFavorite("Y"))
	assert.False(t, second.IsFavorite("Z"))
}

func TestClear(t *testing.T) {
	storage := tu.NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `["a","b"]`))
	store, _ := newStore(t, storage)

	store.Clear()
	store.Flush()

	assert.Empty(t, store.All())
	raw, _, err := storage.GetItem(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestFilterFavorites(t *testing.T) {
	storage := tu.NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `["3","1"]`))
	store, _ := newStore(t, storage)

	home := 101
	matches := []models.Match{
		{ID: "1", Title: "Lakers vs Celtics", HomeScore: &home},
		{ID: "2", Title: "Heat vs Knicks"},
		{ID: "3", Title: "Bulls vs Nets", Status: "Scheduled"},
	}

	filtered := store.FilterFavorites(matches)
	require.Len(t, filtered, 2)
	assert.Equal(t, matches[0], filtered[0])
	assert.Equal(t, matches[2], filtered[1])

	assert.Empty(t, store.FilterFavorites(nil))
}

func TestConcurrentToggles(t *testing.T) {
	storage := tu.NewMemoryStorage()
	store, _ := newStore(t, storage)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			store.Toggle(id)
		}(fmt.Sprintf("m%02d", i))
	}
	wg.Wait()
	store.Flush()

	assert.Equal(t, 50, store.Len())

	raw, ok, err := storage.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 50, strings.Count(raw, `"m`))
	assert.Equal(t, 50, storage.Writes())
}

func TestClose(t *testing.T) {
	storage := tu.NewMemoryStorage()
	store, err := Load(storage, log.New(&bytes.Buffer{}))
	require.NoError(t, err)

	store.Toggle("a")
	store.Close()
	store.Close()

	raw, _, _ := storage.GetItem(StorageKey)
	assert.Equal(t, `["a"]`, raw)

	store.Toggle("b")
	store.Flush()
	assert.True(t, store.IsFavorite("b"))
	raw, _, _ = storage.GetItem(StorageKey)
	assert.Equal(t, `["a"]`, raw, "mutations after close are not persisted")
}
