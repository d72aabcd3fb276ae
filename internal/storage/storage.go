// Package storage is the console's equivalent of browser local storage: a
// small string key/value space per client.  Only two keys are ever
// written, the bearer token and the theme.
package storage

import (
	"context"
	"errors"
)

// Keys written by the console.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store persists values per client.  Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string) error
	Remove(ctx context.Context, clientID, key string) error
}

// Local is the storage view of a single client.  Values are sealed before
// they reach the backing store.
type Local struct {
	store    Store
	sealer   *Sealer
	clientID string
}

// NewLocal binds store to clientID.
func NewLocal(store Store, sealer *Sealer, clientID string) *Local {
	return &Local{store: store, sealer: sealer, clientID: clientID}
}

// ClientID returns the client this view is bound to.
func (l *Local) ClientID() string { return l.clientID }

// GetItem returns the value for key, or "" when it is absent or cannot be
// opened.
func (l *Local) GetItem(ctx context.Context, key string) (string, error) {
	sealed, err := l.store.Get(ctx, l.clientID, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	v, err := l.sealer.Open(sealed)
	if err != nil {
		// written under another secret; treat as absent
		return "", nil
	}
	return v, nil
}

func (l *Local) SetItem(ctx context.Context, key, value string) error {
	sealed, err := l.sealer.Seal(value)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, l.clientID, key, sealed)
}

func (l *Local) RemoveItem(ctx context.Context, key string) error {
	return l.store.Remove(ctx, l.clientID, key)
}
