package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/bytedance/sonic"
)

// CredentialStore holds the session token between calls. Get returns nil when nothing is stored.
type CredentialStore interface {
	Get() (*model.Credentials, error)
	Set(credentials model.Credentials) error
	Clear() error
}

type MemoryCredentialStore struct {
	mu          sync.Mutex
	credentials *model.Credentials
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (store *MemoryCredentialStore) Get() (*model.Credentials, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.credentials == nil {
		return nil, nil
	}

	credentials := *store.credentials
	return &credentials, nil
}

func (store *MemoryCredentialStore) Set(credentials model.Credentials) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.credentials = &credentials
	return nil
}

func (store *MemoryCredentialStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.credentials = nil
	return nil
}

// FileCredentialStore keeps credentials as JSON in a file only the owner can read.
type FileCredentialStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{Path: path}
}

func (store *FileCredentialStore) Get() (*model.Credentials, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	raw, err := os.ReadFile(store.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var credentials model.Credentials
	err = sonic.Unmarshal(raw, &credentials)
	if err != nil {
		return nil, err
	}

	if credentials.AccessToken == "" {
		return nil, nil
	}

	return &credentials, nil
}

func (store *FileCredentialStore) Set(credentials model.Credentials) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	raw, err := sonic.Marshal(credentials)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(store.Path), 0o700)
	if err != nil {
		return err
	}

	tmp := store.Path + ".tmp"
	err = os.WriteFile(tmp, raw, 0o600)
	if err != nil {
		return err
	}

	return os.Rename(tmp, store.Path)
}

func (store *FileCredentialStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	err := os.Remove(store.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
