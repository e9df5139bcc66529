// Package kv provides the on-device key-value store backing the local
// fallback path. Values are serialized JSON blobs, one per logical
// collection.
package kv

import "context"

// Store is a string-keyed store with string (serialized) values.
// Get returns errs.ErrNotFound when the key is absent. Delete on an absent
// key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Fixed keys used by the local stores.
const (
	KeySession   = "rimario.session"
	KeyUsers     = "rimario.users"
	KeyFavorites = "rimario.favorites"
	KeyNotes     = "rimario.notes"
)
