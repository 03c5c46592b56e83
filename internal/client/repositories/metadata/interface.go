// Package metadata persists client state that is not a document. Today that
// is the signed-in session: its bearer token and user id.
package metadata

import "context"

// Repository is a small key/value store. Writes and deletes are all-or-none
// so a session is never left half stored.
type Repository interface {
	// Get returns (nil, nil) for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
