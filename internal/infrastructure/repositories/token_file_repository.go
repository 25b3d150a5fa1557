package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/you/adminconsole/domain"
)

const tokenFileName = "tokens.json"

// TokenFileRepository implements domain.TokenStore on a JSON file in a per-profile directory
type TokenFileRepository struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewTokenFileRepository creates a file-backed token store under dir
func NewTokenFileRepository(dir, key string) domain.TokenStore {
	return &TokenFileRepository{
		path: filepath.Join(dir, tokenFileName),
		key:  key,
	}
}

// Save implements domain.TokenStore
func (r *TokenFileRepository) Save(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return err
	}
	entries[r.key] = token
	return r.write(entries)
}

// Load implements domain.TokenStore
func (r *TokenFileRepository) Load(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return "", err
	}
	return entries[r.key], nil
}

// Clear implements domain.TokenStore
func (r *TokenFileRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := entries[r.key]; !ok {
		return nil
	}
	delete(entries, r.key)
	return r.write(entries)
}

func (r *TokenFileRepository) read() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorageUnavailable, r.path, err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStorageUnavailable, r.path, err)
	}
	return entries, nil
}

// write replaces the file atomically so a crash never leaves half a document
func (r *TokenFileRepository) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), tokenFileName+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
