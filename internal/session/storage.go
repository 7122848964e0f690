package session

import (
	"errors"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// StateStore persists the logged-in flag and the serialized profile. The
// local SQLite store satisfies it.
type StateStore interface {
	Get(key string) (string, bool, error)
	SetAll(values map[string]string) error
	DeleteAll(keys ...string) error
}

// TokenStore keeps the bearer token apart from the rest of the state so it
// can live in the OS keyring when one is available.
type TokenStore interface {
	StoreToken(token string) error
	Token() (string, bool, error)
	ClearToken() error
}

// NewTokenStore picks the backend named in configuration. A keyring that
// turns out to be unavailable falls back to the state store with a warning
// rather than failing login on headless hosts.
func NewTokenStore(backend, service string, state StateStore, logger *slog.Logger) TokenStore {
	if backend == "keyring" {
		probe := keyringTokenStore{service: service}
		if _, _, err := probe.Token(); err == nil || errors.Is(err, keyring.ErrNotFound) {
			return probe
		}
		logger.Warn("OS keyring unavailable, storing token in local store", "service", service)
	}
	return fileTokenStore{state: state}
}

type fileTokenStore struct {
	state StateStore
}

func (s fileTokenStore) StoreToken(token string) error {
	return s.state.SetAll(map[string]string{tokenKey: token})
}

func (s fileTokenStore) Token() (string, bool, error) {
	return s.state.Get(tokenKey)
}

func (s fileTokenStore) ClearToken() error {
	return s.state.DeleteAll(tokenKey)
}

type keyringTokenStore struct {
	service string
}

func (s keyringTokenStore) StoreToken(token string) error {
	return keyring.Set(s.service, tokenKey, token)
}

func (s keyringTokenStore) Token() (string, bool, error) {
	token, err := keyring.Get(s.service, tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return token, true, nil
}

func (s keyringTokenStore) ClearToken() error {
	err := keyring.Delete(s.service, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
