package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Identity is who this session speaks as.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	Language string `json:"language,omitempty"`
}

// IdentityStore persists the identity between sessions so reconnecting keeps
// the same user id.
type IdentityStore interface {
	Load() (*Identity, error)
	Save(identity Identity) error
	Clear() error
}

// ensureIdentity fills in a missing user id, loading a previously saved
// identity when the store has one and minting a fresh id otherwise.
func ensureIdentity(identity Identity, store IdentityStore) (Identity, error) {
	if identity.UserID != "" {
		return identity, nil
	}

	if store != nil {
		saved, err := store.Load()
		if err != nil {
			return identity, fmt.Errorf("failed to load saved identity: %w", err)
		}
		if saved != nil && saved.UserID != "" {
			identity.UserID = saved.UserID
			if identity.Username == "" {
				identity.Username = saved.Username
			}
			return identity, nil
		}
	}

	identity.UserID = uuid.NewString()
	if store != nil {
		if err := store.Save(identity); err != nil {
			return identity, fmt.Errorf("failed to persist identity: %w", err)
		}
	}
	return identity, nil
}

// FileIdentityStore keeps the identity in a JSON file under the user's
// config directory.
type FileIdentityStore struct {
	path string
}

func NewFileIdentityStore() (*FileIdentityStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return &FileIdentityStore{path: filepath.Join(configDir, "parley", "identity.json")}, nil
}

func NewFileIdentityStoreAt(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

func (s *FileIdentityStore) Load() (*Identity, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	return &identity, nil
}

func (s *FileIdentityStore) Save(identity Identity) error {
	raw, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create identity directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

func (s *FileIdentityStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove identity file: %w", err)
	}
	return nil
}

// MemoryIdentityStore holds the identity in memory only. Useful for tests and
// throwaway sessions.
type MemoryIdentityStore struct {
	mu       sync.Mutex
	identity *Identity
}

func (s *MemoryIdentityStore) Load() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, nil
	}
	saved := *s.identity
	return &saved, nil
}

func (s *MemoryIdentityStore) Save(identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
	return nil
}

func (s *MemoryIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	return nil
}
