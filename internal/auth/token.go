// Package auth implements OAuth2 client credentials authentication for
// the Dataverse Web API, with token reuse through an in-process store and
// an optional shared token cache.
package auth

import (
	"sync"
	"time"
)

// expiryLeeway is subtracted from a token's expiry when judging validity,
// so a token about to expire is not used for a request that may outlive
// it.
const expiryLeeway = 5 * time.Second

// Token represents an OAuth2 token response.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	Scope       string    `json:"scope,omitempty"`
	Resource    string    `json:"resource,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token can still be used for a request.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(expiryLeeway).Before(t.ExpiresAt)
}

// TokenStore holds the current in-process token.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set stores a token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
