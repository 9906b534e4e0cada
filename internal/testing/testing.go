// Package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// MockGateway is a test double for [services.SportsGateway].
//
// Each call records its arguments and returns the configured values.
type MockGateway struct {
	mu sync.Mutex

	Matches      []models.Match
	MatchesErr   error
	Details      map[string]*models.Match
	DetailsErr   error
	Table        []models.TeamStanding
	StandingsErr error

	MatchCalls     int
	DetailCalls    []string
	StandingsCalls []string
}

func (m *MockGateway) UpcomingMatches(ctx context.Context) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchCalls++
	if m.MatchesErr != nil {
		return nil, m.MatchesErr
	}
	return append([]models.Match(nil), m.Matches...), nil
}

func (m *MockGateway) MatchDetails(ctx context.Context, id string) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailCalls = append(m.DetailCalls, id)
	if m.DetailsErr != nil {
		return nil, m.DetailsErr
	}
	if match, ok := m.Details[id]; ok {
		return match, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrMatchNotFound, id)
}

func (m *MockGateway) Standings(ctx context.Context, season string) ([]models.TeamStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StandingsCalls = append(m.StandingsCalls, season)
	if m.StandingsErr != nil {
		return nil, m.StandingsErr
	}
	return append([]models.TeamStanding(nil), m.Table...), nil
}

// MemoryStorage is an in-memory key/value store.
//
// SetErr and GetErr, when set, are returned by every write or read.
type MemoryStorage struct {
	mu     sync.Mutex
	items  map[string]string
	writes int

	GetErr error
	SetErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	delete(m.items, key)
	return nil
}

// Writes returns the number of SetItem calls, including failed ones.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// SetFailure swaps the write error while other goroutines may be writing.
func (m *MemoryStorage) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetErr = err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
