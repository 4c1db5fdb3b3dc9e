package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CrestNiraj12/medplus/domain"
)

// FileSession keeps the login state (token and cached user) in a JSON file.
// It implements both TokenProvider and app.SessionStore.
type FileSession struct {
	path string
	mu   sync.Mutex
}

// NewFileSession creates a session store backed by the file at path.
func NewFileSession(path string) *FileSession {
	return &FileSession{path: path}
}

type sessionFile struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

type sessionUser struct {
	ID         string `json:"_id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Location   string `json:"location,omitempty"`
	Profession string `json:"profession,omitempty"`
}

// Load reads the session. A missing file is an empty session, not an error.
func (f *FileSession) Load() (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("reading session from %s: %w", f.path, err)
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return domain.Session{}, fmt.Errorf("parsing session %s: %w", f.path, err)
	}
	return domain.Session{
		Token: strings.TrimSpace(sf.Token),
		User: domain.User{
			ID:         sf.User.ID,
			FirstName:  sf.User.FirstName,
			LastName:   sf.User.LastName,
			Email:      sf.User.Email,
			ProfileURL: sf.User.ProfileURL,
			Location:   sf.User.Location,
			Profession: sf.User.Profession,
		},
	}, nil
}

// Save writes the session with owner-only permissions.
func (f *FileSession) Save(s domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(sessionFile{
		Token: strings.TrimSpace(s.Token),
		User: sessionUser{
			ID:         s.User.ID,
			FirstName:  s.User.FirstName,
			LastName:   s.User.LastName,
			Email:      s.User.Email,
			ProfileURL: s.User.ProfileURL,
			Location:   s.User.Location,
			Profession: s.User.Profession,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session to %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the persisted session.
func (f *FileSession) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing session %s: %w", f.path, err)
	}
	return nil
}

// AccessToken returns the stored token, or "" when nobody is logged in.
func (f *FileSession) AccessToken() (string, error) {
	s, err := f.Load()
	if err != nil {
		return "", err
	}
	return s.Token, nil
}
