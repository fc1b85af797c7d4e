// internal/pkg/storage/storage.go
package storage

import (
	"context"
	"errors"
)

// Fixed keys shared by the session store and the HTTP client.
const (
	// KeySession holds the persisted session blob.
	KeySession = "auth-storage"
	// KeyToken holds the raw bearer token string.
	KeyToken = "token"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Storage is durable key/value storage that survives process restarts.
// Implementations must be safe for concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Lookup returns the value and whether it exists, folding ErrNotFound into ok=false.
func Lookup(ctx context.Context, s Storage, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
