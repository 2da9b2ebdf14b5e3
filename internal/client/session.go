// File: internal/client/session.go

// Package client is the terminal side of LegacyVault: a typed HTTP client for
// the API, the on-disk session, and the per-view state machine.
package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"legacyvault/internal/shared"

	"gopkg.in/yaml.v3"
)

// StoredSession is what signin leaves on disk for later commands.
type StoredSession struct {
	Server      string    `yaml:"server"`
	AccessToken string    `yaml:"access_token"`
	Email       string    `yaml:"email"`
	ExpiresAt   time.Time `yaml:"expires_at"`
}

// SessionFile reads and writes a StoredSession as yaml.
type SessionFile struct {
	Path string
}

// DefaultSessionPath is ~/.legacyvault/session.yaml, or a relative path when
// the home directory is unknown.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".legacyvault", "session.yaml")
	}
	return filepath.Join(home, ".legacyvault", "session.yaml")
}

// Load returns nil without error when no session has been saved.
func (f SessionFile) Load() (*StoredSession, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var s StoredSession
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", f.Path, err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (f SessionFile) Save(server string, session *shared.Session) error {
	data, err := yaml.Marshal(StoredSession{
		Server:      server,
		AccessToken: session.AccessToken,
		Email:       session.Identity.Email,
		ExpiresAt:   session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f SessionFile) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
