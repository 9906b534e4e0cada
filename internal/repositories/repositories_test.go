package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestPreferenceRepository(t *testing.T) {
	t.Run("GetItem", func(t *testing.T) {
		t.Run("Missing", func(t *testing.T) {
			repo := NewPreferenceRepository(setupTestDB(t))

			value, ok, err := repo.GetItem("userThemePreference")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				t.Errorf("expected missing key, got %q", value)
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewPreferenceRepository(db)
			db.Close()

			_, _, err := repo.GetItem("anything")
			if !errors.Is(err, shared.ErrStorage) {
				t.Errorf("expected ErrStorage, got %v", err)
			}
		})
	})

	t.Run("SetItem", func(t *testing.T) {
		repo := NewPreferenceRepository(setupTestDB(t))

		if err := repo.SetItem("userThemePreference", "dark"); err != nil {
			t.Fatalf("failed to set item: %v", err)
		}
		if err := repo.SetItem("userThemePreference", "light"); err != nil {
			t.Fatalf("failed to overwrite item: %v", err)
		}

		value, ok, err := repo.GetItem("userThemePreference")
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if !ok || value != "light" {
			t.Errorf("expected light, got %q (present=%v)", value, ok)
		}

		updatedAt, err := repo.UpdatedAt("userThemePreference")
		if err != nil {
			t.Fatalf("failed to read updated_at: %v", err)
		}
		if time.Since(updatedAt) > time.Minute {
			t.Errorf("updated_at too old: %v", updatedAt)
		}
	})

	t.Run("RemoveItem", func(t *testing.T) {
		repo := NewPreferenceRepository(setupTestDB(t))

		if err := repo.SetItem("userAuthToken", "abc"); err != nil {
			t.Fatalf("failed to set item: %v", err)
		}
		if err := repo.RemoveItem("userAuthToken"); err != nil {
			t.Fatalf("failed to remove item: %v", err)
		}
		if err := repo.RemoveItem("userAuthToken"); err != nil {
			t.Fatalf("removing a missing key should succeed: %v", err)
		}

		if _, ok, _ := repo.GetItem("userAuthToken"); ok {
			t.Error("expected key to be removed")
		}

		if _, err := repo.UpdatedAt("userAuthToken"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage for missing key, got %v", err)
		}
	})
}

func TestMatchCacheRepository(t *testing.T) {
	score := 110

	t.Run("Empty", func(t *testing.T) {
		repo := NewMatchCacheRepository(setupTestDB(t))

		matches, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("expected empty cache, got %d", len(matches))
		}

		fetchedAt, err := repo.FetchedAt()
		if err != nil {
			t.Fatalf("failed to read fetched_at: %v", err)
		}
		if !fetchedAt.IsZero() {
			t.Errorf("expected zero time, got %v", fetchedAt)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		repo := NewMatchCacheRepository(setupTestDB(t))

		first := []models.Match{{ID: "1", Title: "Old"}}
		if err := repo.Replace(first); err != nil {
			t.Fatalf("failed to replace: %v", err)
		}

		second := []models.Match{
			{ID: "9", Title: "Lakers vs Celtics", HomeScore: &score, Status: "Match Finished"},
			{ID: "2", Title: "Heat vs Knicks", Status: "Scheduled"},
		}
		if err := repo.Replace(second); err != nil {
			t.Fatalf("failed to replace: %v", err)
		}

		matches, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(matches))
		}
		if matches[0].ID != "9" || matches[1].ID != "2" {
			t.Errorf("expected feed order [9 2], got [%s %s]", matches[0].ID, matches[1].ID)
		}
		if matches[0].HomeScore == nil || *matches[0].HomeScore != score {
			t.Errorf("expected home score %d to survive round trip", score)
		}

		fetchedAt, err := repo.FetchedAt()
		if err != nil {
			t.Fatalf("failed to read fetched_at: %v", err)
		}
		if fetchedAt.IsZero() {
			t.Error("expected fetched_at to be set")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewMatchCacheRepository(setupTestDB(t))
		if err := repo.Replace([]models.Match{{ID: "7", Title: "Bulls vs Nets"}}); err != nil {
			t.Fatalf("failed to replace: %v", err)
		}

		m, err := repo.Get("7")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if m.Title != "Bulls vs Nets" {
			t.Errorf("unexpected title %q", m.Title)
		}

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrMatchNotFound) {
			t.Errorf("expected ErrMatchNotFound, got %v", err)
		}
	})
}
