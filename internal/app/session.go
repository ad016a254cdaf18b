package app

import (
	"sync"

	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/otjiningirua/owfarm/config"
)

const sessionTokenLength = 48

// SessionStore holds the admin secret hash and the set of live session
// tokens. Tokens live until logout or process exit.
type SessionStore struct {
	mu     sync.RWMutex
	secret []byte
	tokens map[string]struct{}
}

// NewSessionStore hashes the admin secret. Secrets past the bcrypt input
// limit are refused instead of silently truncated.
func NewSessionStore(password string) (*SessionStore, error) {
	if len(password) > config.MaxAdminPasswordLen {
		return nil, errors.Errorf("admin secret is longer than %d bytes", config.MaxAdminPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash admin secret")
	}
	return &SessionStore{secret: hash, tokens: make(map[string]struct{})}, nil
}

// newSessionToken draws from gommon random, which reads crypto/rand
func newSessionToken() string {
	return random.String(sessionTokenLength, random.Alphanumeric)
}

// Login returns a fresh token when password matches the admin secret
func (s *SessionStore) Login(password string) (string, bool) {
	if len(password) > config.MaxAdminPasswordLen {
		return "", false
	}
	if bcrypt.CompareHashAndPassword(s.secret, []byte(password)) != nil {
		return "", false
	}
	token := newSessionToken()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return token, true
}

func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

func (s *SessionStore) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Len number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
