package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/courtside/internal/shared"
)

func newAuthFixture(t *testing.T, handler http.HandlerFunc) *AuthService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAuthService(shared.AuthConfig{BaseURL: server.URL, ExpiresInMins: 30}, server.Client(), nil)
}

func TestNewAuthService(t *testing.T) {
	svc := NewAuthService(shared.AuthConfig{}, nil, nil)

	assert.Equal(t, "https://dummyjson.com/auth", svc.baseURL)
	assert.Equal(t, 60, svc.expiresInMins)
	assert.Equal(t, http.DefaultClient, svc.httpClient)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body loginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "emilys", body.Username)
			assert.Equal(t, "emilyspass", body.Password)
			assert.Equal(t, 30, body.ExpiresInMins)

			json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok-123", "firstName": "Emily"})
		})

		user, err := svc.Login(context.Background(), "emilys", "emilyspass")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", user.Token)
		assert.Equal(t, "Emily", user.FirstName)
		assert.Equal(t, "emilys", user.Username)
	})

	t.Run("first name falls back to username", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"accessToken":"tok"}`))
		})

		user, err := svc.Login(context.Background(), "kminchelle", "pw")
		require.NoError(t, err)
		assert.Equal(t, "kminchelle", user.FirstName)
	})

	t.Run("rejection surfaces API message", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
		})

		_, err := svc.Login(context.Background(), "emilys", "wrong")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAuthFailed))
		assert.Contains(t, err.Error(), "Invalid credentials")
	})

	t.Run("rejection without message", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := svc.Login(context.Background(), "emilys", "pw")
		assert.True(t, errors.Is(err, shared.ErrAuthFailed))
		assert.Contains(t, err.Error(), loginFailedMessage)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"firstName":"Emily"}`))
		})

		_, err := svc.Login(context.Background(), "emilys", "pw")
		assert.True(t, errors.Is(err, shared.ErrAuthFailed))
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc := NewAuthService(shared.AuthConfig{}, nil, nil)

		_, err := svc.Login(context.Background(), " ", "pw")
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))

		_, err = svc.Login(context.Background(), "emilys", "")
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))
	})
}

func TestRegister(t *testing.T) {
	svc := NewAuthService(shared.AuthConfig{}, nil, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	t.Run("issues mock token", func(t *testing.T) {
		user, err := svc.Register("hooper", "secret")
		require.NoError(t, err)

		assert.Equal(t, "mock_token_hooper_1700000000123", user.Token)
		assert.Equal(t, "hooper", user.FirstName)
		assert.Equal(t, "hooper", user.Username)
		assert.True(t, IsMockToken(user.Token))
	})

	t.Run("requires credentials", func(t *testing.T) {
		_, err := svc.Register("", "secret")
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))

		_, err = svc.Register("hooper", "")
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))
	})
}

func TestMe(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/me", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			w.Write([]byte(`{"username":"emilys","firstName":"Emily"}`))
		})

		user, err := svc.Me(context.Background(), "tok-123")
		require.NoError(t, err)
		assert.Equal(t, "Emily", user.FirstName)
		assert.Equal(t, "emilys", user.Username)
		assert.Equal(t, "tok-123", user.Token)
	})

	t.Run("expired token", func(t *testing.T) {
		svc := newAuthFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token Expired!"}`))
		})

		_, err := svc.Me(context.Background(), "old")
		assert.True(t, errors.Is(err, shared.ErrNotAuthenticated))
		assert.True(t, strings.Contains(err.Error(), "Token Expired!"))
	})

	t.Run("empty token", func(t *testing.T) {
		svc := NewAuthService(shared.AuthConfig{}, nil, nil)

		_, err := svc.Me(context.Background(), "")
		assert.True(t, errors.Is(err, shared.ErrNotAuthenticated))
	})
}
