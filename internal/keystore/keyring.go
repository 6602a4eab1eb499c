package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/asgsolar/luxclient/internal/domain"
)

// KeyringStore persists the token pair in the OS keychain (Keychain,
// Secret Service, Credential Manager) under the fixed service slot.
type KeyringStore struct{}

// NewKeyringStore creates a keychain-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Save(_ context.Context, token domain.AuthToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(Service, Account, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Load(_ context.Context) (*domain.AuthToken, error) {
	data, err := keyring.Get(Service, Account)
	if err != nil {
		// Absent and unreadable both degrade to "no credentials".
		return nil, nil
	}

	var token domain.AuthToken
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, nil
	}
	return &token, nil
}

func (s *KeyringStore) Clear(_ context.Context) error {
	if err := keyring.Delete(Service, Account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to clear keyring: %w", err)
	}
	return nil
}
