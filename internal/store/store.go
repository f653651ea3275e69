// Package store persists the user's Last.fm profile and local settings as a
// JSON file with atomic writes. It replaces the kind of ambient defaults
// singleton a desktop app would use: a Store handle is created once and
// passed explicitly to whatever needs it.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Profile is the persisted result of a completed login.
type Profile struct {
	SessionKey string `json:"session_key,omitempty"`
	Name       string `json:"name,omitempty"`
	Subscriber bool   `json:"subscriber,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
	Avatar     []byte `json:"avatar,omitempty"`
}

// persisted is the on-disk representation.
type persisted struct {
	Profile        Profile `json:"profile"`
	PrivateSession bool    `json:"private_session"`
}

// Store manages the settings file with thread-safe access. Several
// processes share one file: the daemon holds a long-lived handle while the
// login, logout and private commands write from their own. Reads check the
// file's mtime and pick up writes made through other handles.
type Store struct {
	mu       sync.RWMutex
	filePath string
	data     persisted
	loadedAt time.Time
}

// Open creates a Store backed by filePath, restoring existing contents if
// the file exists.
func Open(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, err
	}
	s.loadedAt = info.ModTime()
	return s, nil
}

// reload re-reads the file if it changed on disk since the last load.
// Failures leave the cached state in place; the next read tries again.
func (s *Store) reload() {
	if s.filePath == "" {
		return
	}

	info, err := os.Stat(s.filePath)
	if err != nil {
		return
	}

	s.mu.RLock()
	fresh := info.ModTime().Equal(s.loadedAt)
	s.mu.RUnlock()
	if fresh {
		return
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}

	var parsed persisted
	if err := json.Unmarshal(data, &parsed); err != nil {
		return
	}

	s.mu.Lock()
	s.data = parsed
	s.loadedAt = info.ModTime()
	s.mu.Unlock()
}

// Profile returns a copy of the stored profile.
func (s *Store) Profile() Profile {
	s.reload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Profile
}

// SetProfile replaces the stored profile.
func (s *Store) SetProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Profile = p
	return s.persist()
}

// SessionKey returns the stored session key, empty when signed out.
func (s *Store) SessionKey() string {
	s.reload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Profile.SessionKey
}

// PrivateSession reports whether the user has enabled a private session.
// Satisfies lastfm.PrivacyChecker.
func (s *Store) PrivateSession() bool {
	s.reload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.PrivateSession
}

// SetPrivateSession updates the private-session flag.
func (s *Store) SetPrivateSession(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PrivateSession = enabled
	return s.persist()
}

// Reset clears everything. Used on sign-out.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = persisted{}
	return s.persist()
}

// persist saves the current state to disk via temp file + rename.
// Must be called with lock held.
func (s *Store) persist() error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return err
	}

	if info, err := os.Stat(s.filePath); err == nil {
		s.loadedAt = info.ModTime()
	}
	return nil
}
