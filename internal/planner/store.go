package planner

import "context"

// Store is a byte-level persistent key-value backend.
// Values are opaque to the backend; KeyedStore handles serialization.
type Store interface {
	// Get returns the value stored at key.
	// Returns ErrNotFound if the key has never been written or was removed.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value at key. There is no partial or merge write.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is a no-op, not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any connections or handles held by the backend.
	Close() error
}
