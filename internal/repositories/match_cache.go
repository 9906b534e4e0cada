package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// MatchCacheRepository stores the most recently fetched fixture list.
//
// Each match is kept as a JSON payload with its position in the feed so [MatchCacheRepository.List]
// returns the list in the order it was fetched.
type MatchCacheRepository struct {
	db *sql.DB
}

// NewMatchCacheRepository creates a new [MatchCacheRepository] with the given database connection
func NewMatchCacheRepository(db *sql.DB) *MatchCacheRepository {
	return &MatchCacheRepository{db: db}
}

// Replace swaps the cached list for matches in a single transaction.
func (r *MatchCacheRepository) Replace(matches []models.Match) error {
	now := time.Now().UTC()

	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM match_cache`); err != nil {
			return fmt.Errorf("failed to clear match cache: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO match_cache (id, position, payload, fetched_at) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, m := range matches {
			payload, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to encode match %s: %w", m.ID, err)
			}
			if _, err := stmt.Exec(m.ID, i, string(payload), now); err != nil {
				return fmt.Errorf("failed to cache match %s: %w", m.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return nil
}

// List returns the cached matches in feed order.
func (r *MatchCacheRepository) List() ([]models.Match, error) {
	rows, err := r.db.Query(`SELECT payload FROM match_cache ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query match cache: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%w: failed to scan match: %v", shared.ErrStorage, err)
		}

		var m models.Match
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("%w: failed to decode match: %v", shared.ErrStorage, err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStorage, err)
	}
	return matches, nil
}

// Get returns a single cached match.
func (r *MatchCacheRepository) Get(id string) (*models.Match, error) {
	var payload string
	err := r.db.QueryRow(`SELECT payload FROM match_cache WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrMatchNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query match: %v", shared.ErrStorage, err)
	}

	var m models.Match
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("%w: failed to decode match: %v", shared.ErrStorage, err)
	}
	return &m, nil
}

// FetchedAt returns when the cache was last replaced. The zero time means it is empty.
func (r *MatchCacheRepository) FetchedAt() (time.Time, error) {
	var fetchedAt time.Time
	err := r.db.QueryRow(`SELECT fetched_at FROM match_cache ORDER BY fetched_at DESC LIMIT 1`).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to query match cache: %v", shared.ErrStorage, err)
	}
	return fetchedAt, nil
}
