package transport

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStorage is the durable home of the refresh token. Implementations are
// platform-specific; the transport only ever calls these three operations.
type TokenStorage interface {
	// Store persists the refresh token, replacing any previous one.
	Store(refresh string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
}

// MemoryStorage keeps the refresh token in process memory. Suitable for
// tests and short-lived embedders; the token does not survive a restart.
type MemoryStorage struct {
	mu      sync.Mutex
	refresh string
}

func (s *MemoryStorage) Store(refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = refresh
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = ""
	return nil
}

func (s *MemoryStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

// FileStorage persists the refresh token as a single 0600 file.
type FileStorage struct {
	path string
}

// NewFileStorage stores the token at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultStoragePath places the token file under the user's config
// directory, honoring XDG_CONFIG_HOME.
func DefaultStoragePath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "habitloop", "refresh_token")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "habitloop", "refresh_token")
}

func (s *FileStorage) Store(refresh string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(refresh), 0o600)
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
