// Package metadata is a small key/value store over the local SQLite
// "metadata" table. The durable credential and the last known user id live
// here.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyToken        = "token"
	KeyTokenSavedAt = "token_saved_at"
	KeyLastUserID   = "last_user_id"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
}
