package settings

import (
	"context"
)

// Repository is a durable key/value store for small client state: the
// persisted credential, user preferences and the legacy history metadata
// list. Get returns nil (not an error) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
