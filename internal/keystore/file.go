package keystore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/security"
)

// Derivation salt for the file store key. Fixed: the store holds a
// single slot per device, not per-user vaults.
var fileSalt = []byte(Service + "/" + Account)

// FileStore persists the token pair in an AES-GCM encrypted file, for
// hosts without an OS keychain (headless daemons, CI).
type FileStore struct {
	path string
	enc  *security.Encryptor
}

// NewFileStore creates a file-backed store. The encryption key is
// derived from the passphrase with scrypt.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	enc, err := security.NewEncryptorFromPassphrase(passphrase, fileSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive file store key: %w", err)
	}
	return &FileStore{path: path, enc: enc}, nil
}

func (s *FileStore) Save(_ context.Context, token domain.AuthToken) error {
	data, err := s.enc.EncryptJSON(token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	// Write-then-rename so a crash never leaves a partial slot
	// readable as valid.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (*domain.AuthToken, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var token domain.AuthToken
	if err := s.enc.DecryptJSON(data, &token); err != nil {
		// Wrong passphrase or corrupt file degrade to "no
		// credentials" rather than surfacing an error.
		return nil, nil
	}
	return &token, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
