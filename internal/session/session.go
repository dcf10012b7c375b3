// Package session persists Jellyfin login credentials.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultFileName is the default name for the session file.
const DefaultFileName = "session.json"

// Session is the result of a successful login.
type Session struct {
	Server      string    `json:"server"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	AccessToken string    `json:"access_token"`
	DeviceID    string    `json:"device_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage handles persisting a session to disk.
type Storage struct {
	path string
}

// NewStorage creates session storage at path.
// If path is empty, uses the default location (~/.config/jamp/session.json).
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "jamp", DefaultFileName)
	}

	return &Storage{path: path}, nil
}

// Save persists a session to disk.
func (s *Storage) Save(sess *Session) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write with restricted permissions (owner only)
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads the session from disk. It returns nil, nil when none is stored.
func (s *Storage) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &sess, nil
}

// Delete removes the stored session.
func (s *Storage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists returns true if a session file exists.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the session file.
func (s *Storage) Path() string {
	return s.path
}

// DeviceID returns the device id of the stored session, or a new one.
// Jellyfin ties access tokens to the device id, so it is reused across logins.
func (s *Storage) DeviceID() string {
	if sess, err := s.Load(); err == nil && sess != nil && sess.DeviceID != "" {
		return sess.DeviceID
	}
	return uuid.NewString()
}
