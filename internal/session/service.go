package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/localstore"
)

const (
	flagKey  = localstore.KeyIsLoggedIn
	userKey  = localstore.KeyCurrentUser
	tokenKey = localstore.KeyToken
)

type Service struct {
	state  StateStore
	tokens TokenStore
	logger *slog.Logger

	mu      sync.RWMutex
	current Session
}

func NewService(state StateStore, tokens TokenStore, logger *slog.Logger) *Service {
	return &Service{
		state:  state,
		tokens: tokens,
		logger: logger,
	}
}

// Login persists a successful login response. A response missing the user
// or the token is rejected before anything durable is written, so a partial
// session can never be created.
func (s *Service) Login(data LoginData) (Session, error) {
	if data.User == nil || data.Token == "" {
		s.logger.Warn("login response incomplete",
			"has_user", data.User != nil,
			"has_token", data.Token != "")
		return LoggedOut(), internal.ErrIncompleteLogin
	}

	profile := profileFrom(data.User)
	userJSON, err := json.Marshal(profile)
	if err != nil {
		return LoggedOut(), internal.NewInternalError("failed to serialize user profile", err)
	}

	if err := s.tokens.StoreToken(data.Token); err != nil {
		return LoggedOut(), internal.NewInternalError("failed to store token", err).
			WithDetails(internal.ErrCodeStorageFailed)
	}
	if err := s.state.SetAll(map[string]string{
		flagKey: "true",
		userKey: string(userJSON),
	}); err != nil {
		// roll the token back so restore cannot see a half-written session
		_ = s.tokens.ClearToken()
		return LoggedOut(), internal.NewInternalError("failed to persist session", err)
	}

	sess := Session{IsLoggedIn: true, User: profile, Token: data.Token}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("logged in", "username", profile.Username, "role", profile.Role)
	return sess, nil
}

// Logout clears every durable key unconditionally; it never fails the
// caller just because one backend refused the delete.
func (s *Service) Logout() {
	if err := s.tokens.ClearToken(); err != nil {
		s.logger.Error("failed to clear token", "error", err)
	}
	if err := s.state.DeleteAll(flagKey, userKey); err != nil {
		s.logger.Error("failed to clear session keys", "error", err)
	}

	s.mu.Lock()
	s.current = LoggedOut()
	s.mu.Unlock()

	s.logger.Info("logged out")
}

// Restore rebuilds the session from durable storage on startup. Any missing
// or unparsable key yields the logged-out state, never a partial session.
func (s *Service) Restore() Session {
	sess := s.restore()
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) restore() Session {
	flag, ok, err := s.state.Get(flagKey)
	if err != nil || !ok || flag != "true" {
		return LoggedOut()
	}

	userJSON, ok, err := s.state.Get(userKey)
	if err != nil || !ok {
		s.logger.Warn("session flag set but user profile missing, treating as logged out")
		return LoggedOut()
	}
	var profile UserProfile
	if err := json.Unmarshal([]byte(userJSON), &profile); err != nil {
		s.logger.Warn("stored user profile unparsable, treating as logged out", "error", err)
		return LoggedOut()
	}

	token, ok, err := s.tokens.Token()
	if err != nil || !ok || token == "" {
		s.logger.Warn("session flag set but token missing, treating as logged out")
		return LoggedOut()
	}
	if tokenExpired(token) {
		s.logger.Info("stored token expired, logging out", "username", profile.Username)
		return LoggedOut()
	}

	return Session{IsLoggedIn: true, User: &profile, Token: token}
}

// Current returns the in-memory session.
func (s *Service) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token is the gateway's TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// tokenExpired inspects JWT expiry claims without verifying the signature;
// the client holds no key, the backend stays the authority. Opaque
// non-JWT tokens are accepted as-is.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
