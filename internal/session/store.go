// Package session persists the bearer credential between runs. It is the
// terminal equivalent of the browser cookie jar: opaque named values with
// an expiry, cleared wholesale on logout or when the server rejects the
// token. It is a convenience, not a security boundary.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// TokenKey is the entry name the session token is stored under.
	TokenKey = "authToken"

	// TokenTTL is how long a stored token is honored locally.
	TokenTTL = 7 * 24 * time.Hour

	storeFile = "session.json"
)

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is a file-backed key/value store with per-entry expiry.
// Expired entries read as absent and are pruned on the next write.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a store persisting to dir/session.json. The directory is
// created lazily on first write, mode 0700; the file is written mode 0600.
func NewStore(dir string) *Store {
	return &Store{
		path: filepath.Join(dir, storeFile),
		now:  time.Now,
	}
}

// Set stores value under name, expiring after ttl.
func (s *Store) Set(name, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	entries[name] = entry{Value: value, ExpiresAt: s.now().Add(ttl)}
	return s.save(entries)
}

// Get returns the stored value, or ok=false when missing or expired.
func (s *Store) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.load()[name]
	if !ok || s.now().After(e.ExpiresAt) {
		return "", false
	}
	return e.Value, true
}

// Delete removes a single entry. Removing an absent entry is not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	if _, ok := entries[name]; !ok {
		return nil
	}
	delete(entries, name)
	return s.save(entries)
}

// Clear removes every stored entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session store: %w", err)
	}
	return nil
}

// Token returns the stored session token, if any.
func (s *Store) Token() (string, bool) {
	return s.Get(TokenKey)
}

// SetToken stores the session token with the standard TTL.
func (s *Store) SetToken(token string) error {
	return s.Set(TokenKey, token, TokenTTL)
}

// load reads the store file, dropping expired entries. Unreadable or
// corrupt files read as empty; the next write starts fresh.
func (s *Store) load() map[string]entry {
	entries := make(map[string]entry)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return make(map[string]entry)
	}
	now := s.now()
	for name, e := range entries {
		if now.After(e.ExpiresAt) {
			delete(entries, name)
		}
	}
	return entries
}

func (s *Store) save(entries map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session store: %w", err)
	}
	return nil
}
