// Package keystore persists the device's single auth token pair in a
// secure store addressed by a fixed service identifier.
package keystore

import (
	"context"

	"github.com/asgsolar/luxclient/internal/domain"
)

// The device holds one credential slot. Single-account model: keys are
// constant, not user-derived.
const (
	Service = "uk.co.ashadegreener.lux"
	Account = "auth_tokens"
)

// Store is the credential store capability. Load treats "not found"
// and "malformed stored value" identically, returning (nil, nil);
// Save and Clear propagate failures, since a silent failure there
// desynchronizes the persisted and in-memory token.
type Store interface {
	Save(ctx context.Context, token domain.AuthToken) error
	Load(ctx context.Context) (*domain.AuthToken, error)
	Clear(ctx context.Context) error
}
