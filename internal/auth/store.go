package auth

import "sync"

// Store holds the process-wide API key for single-tenant deployments.
// The key is set at startup (flag, env var, or config file) and may be
// replaced at runtime through the configure tool. Reads and writes are
// last-write-wins: a call already past Get when Set happens keeps using
// the key it resolved.
type Store struct {
	mu     sync.RWMutex
	apiKey string
}

// NewStore creates a store with an optional initial key. An empty
// initial key means no credential is configured yet.
func NewStore(initial string) *Store {
	return &Store{apiKey: initial}
}

// Get returns the current API key, or ErrMissingCredential when none
// has been configured.
func (s *Store) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.apiKey == "" {
		return "", ErrMissingCredential
	}
	return s.apiKey, nil
}

// Set replaces the API key. Subsequent calls observe the new value.
func (s *Store) Set(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = apiKey
}

// Configured reports whether a key is currently set, without exposing
// the key itself.
func (s *Store) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != ""
}
