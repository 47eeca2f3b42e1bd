// Package storage provides the key/value stores the API caches upstream
// lookups in.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a byte-oriented key/value store. A zero ttl keeps the entry until
// it is removed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
