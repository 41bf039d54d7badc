package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider stores opaque bytes under a key with a TTL. It holds search
// collaborator responses, hosted static map images and the city list, never
// page-view state.
type CacheProvider interface {
	// Get returns ErrCacheMiss (possibly wrapped) when nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; expirationSeconds <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error
	Delete(ctx context.Context, key string) error
}
