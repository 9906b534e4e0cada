package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

const (
	defaultAuthURL       = "https://dummyjson.com/auth"
	defaultExpiresInMins = 60
	mockTokenPrefix      = "mock_token_"
	loginFailedMessage   = "check username/password or internet connection"
)

// AuthService implements [AuthGateway] for the DummyJSON demo API.
//
// DummyJSON has no registration endpoint, so [AuthService.Register] issues a local mock token.
type AuthService struct {
	baseURL       string
	expiresInMins int
	httpClient    *http.Client
	logger        *log.Logger
	now           func() time.Time
}

// NewAuthService creates a new [AuthService], using defaults for an empty config or nil client.
func NewAuthService(cfg shared.AuthConfig, client *http.Client, logger *log.Logger) *AuthService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAuthURL
	}
	expires := cfg.ExpiresInMins
	if expires <= 0 {
		expires = defaultExpiresInMins
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &AuthService{
		baseURL:       baseURL,
		expiresInMins: expires,
		httpClient:    client,
		logger:        shared.WithLogger(logger, "service", "auth"),
		now:           time.Now,
	}
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	Message     string `json:"message"`
}

// Login exchanges credentials for an access token.
//
// The first name falls back to the username. Rejections surface the API's message wrapped in [shared.ErrAuthFailed].
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	body, err := json.Marshal(loginRequest{Username: username, Password: password, ExpiresInMins: s.expiresInMins})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug("attempting login", "username", username)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var payload authResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := payload.Message
		if decodeErr != nil || message == "" {
			message = loginFailedMessage
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: malformed login response: %v", shared.ErrNetwork, decodeErr)
	}

	token := payload.AccessToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no access token received", shared.ErrAuthFailed)
	}

	firstName := payload.FirstName
	if firstName == "" {
		firstName = username
	}

	return &models.User{Token: token, FirstName: firstName, Username: username}, nil
}

// Register simulates account creation by issuing a local mock token.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	s.logger.Debug("simulating registration", "username", username)

	token := fmt.Sprintf("%s%s_%d", mockTokenPrefix, username, s.now().UnixMilli())
	return &models.User{Token: token, FirstName: username, Username: username}, nil
}

// IsMockToken reports whether token was issued by [AuthService.Register].
func IsMockToken(token string) bool {
	return strings.HasPrefix(token, mockTokenPrefix)
}

// Me fetches the profile for an access token using a bearer-token client.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var payload authResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, payload.Message)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: profile request returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	case decodeErr != nil:
		return nil, fmt.Errorf("%w: malformed profile response: %v", shared.ErrNetwork, decodeErr)
	}

	firstName := payload.FirstName
	if firstName == "" {
		firstName = payload.Username
	}
	return &models.User{Token: token, FirstName: firstName, Username: payload.Username}, nil
}
