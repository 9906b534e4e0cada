// Package session tracks the signed-in user across runs.
//
// The access token and profile are stored under separate keys. A stored token
// without a profile restores a placeholder profile so a session created by an
// older build still counts as signed in.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/services"
	"github.com/desertthunder/courtside/internal/shared"
)

const (
	TokenKey   = "userAuthToken"
	ProfileKey = "userProfile"

	DefaultFirstName = "NBA Fan"
	DefaultUsername  = "courtside"
)

// Store is a durable string key/value store that supports removal.
type Store interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Manager owns the current [models.User], persisting it through a [Store].
type Manager struct {
	store  Store
	auth   services.AuthGateway
	logger *log.Logger

	mu   sync.RWMutex
	user *models.User
}

// NewManager creates a signed-out [Manager]. Call [Manager.Load] to restore a stored session.
func NewManager(store Store, auth services.AuthGateway, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{store: store, auth: auth, logger: logger}
}

// Load restores the stored session. It returns [shared.ErrNotAuthenticated] when no token is stored.
func (m *Manager) Load() (*models.User, error) {
	token, ok, err := m.store.GetItem(TokenKey)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		m.set(nil)
		return nil, shared.ErrNotAuthenticated
	}

	user := &models.User{Token: token, FirstName: DefaultFirstName, Username: DefaultUsername}

	raw, ok, err := m.store.GetItem(ProfileKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var profile models.User
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			m.logger.Warn("ignoring unreadable profile", "error", err)
		} else {
			if profile.FirstName != "" {
				user.FirstName = profile.FirstName
			}
			if profile.Username != "" {
				user.Username = profile.Username
			}
		}
	}

	m.set(user)
	return user, nil
}

// Current returns the signed-in user, if any.
func (m *Manager) Current() (*models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil, false
	}
	u := *m.user
	return &u, true
}

// Login authenticates against the gateway and persists the session.
//
// A failed login clears any previous in-memory session, leaving stored state untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.set(nil)
		return nil, err
	}
	if err := m.persist(user); err != nil {
		return nil, err
	}

	m.logger.Info("signed in", "username", user.Username)
	return user, nil
}

// Register creates an account through the gateway and persists the session.
func (m *Manager) Register(username, password string) (*models.User, error) {
	user, err := m.auth.Register(username, password)
	if err != nil {
		return nil, err
	}
	if err := m.persist(user); err != nil {
		return nil, err
	}

	m.logger.Info("registered", "username", user.Username)
	return user, nil
}

// Logout removes the stored token and profile.
func (m *Manager) Logout() error {
	m.set(nil)

	if err := m.store.RemoveItem(TokenKey); err != nil {
		return err
	}
	if err := m.store.RemoveItem(ProfileKey); err != nil {
		return err
	}
	return nil
}

func (m *Manager) persist(user *models.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := m.store.SetItem(TokenKey, user.Token); err != nil {
		return err
	}
	if err := m.store.SetItem(ProfileKey, string(profile)); err != nil {
		return err
	}

	m.set(user)
	return nil
}

func (m *Manager) set(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}
