// Package session holds the current access token for one client
// instance. The store is created empty and passed explicitly to the
// components that need it; there is no package-level singleton.
package session

import "sync"

// Store is the single source of truth for the bearer token. At most
// one token is live at a time; Login replaces it atomically and Logout
// clears it. Reads are snapshot reads taken at request-preparation
// time; a request already in flight never re-checks the token.
type Store struct {
	mu    sync.RWMutex
	token string
}

// New returns an empty, logged-out store.
func New() *Store { return &Store{} }

// Login unconditionally replaces the stored token. No shape validation
// happens here; expiry inspection is the interceptor's job.
func (s *Store) Login(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Logout unconditionally clears the stored token.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Token returns the current token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool { return s.Token() != "" }
