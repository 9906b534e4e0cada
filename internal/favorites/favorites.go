// Package favorites keeps the user's set of favorite match ids.
//
// The set lives in memory and is authoritative. Every mutation is applied
// synchronously and queues a snapshot of the resulting set. A single background
// writer persists the snapshots one by one in mutation order, so each toggle gets
// its own write and concurrent toggles never interleave partial writes.
package favorites

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// StorageKey is the key the set is persisted under.
const StorageKey = "favoriteMatchIds"

// Storage is a durable string key/value store.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// Store is a deduplicated set of match ids, persisted on every mutation.
type Store struct {
	storage Storage
	logger  *log.Logger

	mu      sync.Mutex
	flushed *sync.Cond
	ids     map[string]struct{}
	version uint64     // mutations issued
	written uint64     // last version the writer attempted
	pending []snapshot // queued writes, oldest first
	stopped bool

	kick      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type snapshot struct {
	version uint64
	ids     []string
}

// Load hydrates a [Store] from storage and starts its writer.
//
// A missing key yields an empty set. An unreadable payload is logged and also yields an empty set.
func Load(storage Storage, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	raw, ok, err := storage.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read favorites: %v", shared.ErrStorage, err)
	}

	ids := make(map[string]struct{})
	if ok && raw != "" {
		var stored []string
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			logger.Warn("ignoring unreadable favorites payload", "error", err)
		} else {
			for _, id := range stored {
				ids[id] = struct{}{}
			}
		}
	}

	s := &Store{
		storage: storage,
		logger:  logger,
		ids:     ids,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.flushed = sync.NewCond(&s.mu)

	go s.run(s.kick)
	return s, nil
}

// Toggle removes id when it is a favorite and adds it otherwise, reporting whether it is now a favorite.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.markDirtyLocked()
	return !present
}

// Clear removes every favorite.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.ids)
	s.markDirtyLocked()
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]
	return ok
}

// All returns the favorite ids in sorted order.
func (s *Store) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}

// FilterFavorites returns the matches whose id is a favorite, in input order.
func (s *Store) FilterFavorites(matches []models.Match) []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Match, 0, len(s.ids))
	for _, m := range matches {
		if _, ok := s.ids[m.ID]; ok {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// Flush blocks until every mutation issued before the call has been written, or the writer has stopped.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.version
	for s.written < target && !s.stopped {
		s.flushed.Wait()
	}
}

// Close flushes pending writes and stops the writer.
//
// Mutations after Close stay in memory only.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.Flush()

		s.mu.Lock()
		close(s.kick)
		s.kick = nil
		s.mu.Unlock()

		<-s.done
	})
}

func (s *Store) markDirtyLocked() {
	s.version++
	if s.kick == nil {
		return
	}
	s.pending = append(s.pending, snapshot{version: s.version, ids: s.snapshotLocked()})
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store) snapshotLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) run(kick <-chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.stopped = true
		s.flushed.Broadcast()
		s.mu.Unlock()
		close(s.done)
	}()

	for range kick {
		s.persist()
	}
}

// persist drains the queue, writing every snapshot in order.
func (s *Store) persist() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending[0] = snapshot{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if err := s.write(next.ids); err != nil {
			s.logger.Warn("failed to persist favorites", "error", err, "count", len(next.ids))
		}

		s.mu.Lock()
		s.written = next.version
		s.flushed.Broadcast()
		s.mu.Unlock()
	}
}

func (s *Store) write(ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.storage.SetItem(StorageKey, string(payload))
}
