package planner

import (
	"context"
	"encoding/json"
	"errors"
)

// KeyedStore stores JSON-serializable values in a Store.
// Each call performs exactly one backend round trip; there is no batching,
// no write coalescing, and no serialization of concurrent calls on a key.
type KeyedStore struct {
	store Store
}

// NewKeyedStore wraps a byte-level Store.
func NewKeyedStore(store Store) *KeyedStore {
	return &KeyedStore{store: store}
}

// Get decodes the value at key into dst.
// Returns ErrNotFound if the key is absent, and a *StorageError if the
// backend fails or the stored bytes are not valid JSON.
func (k *KeyedStore) Get(ctx context.Context, key string, dst any) error {
	data, err := k.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return &StorageError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return &StorageError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

// Set encodes value as JSON and overwrites whatever is stored at key.
func (k *KeyedStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}

	if err := k.store.Set(ctx, key, data); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (k *KeyedStore) Remove(ctx context.Context, key string) error {
	if err := k.store.Remove(ctx, key); err != nil {
		return &StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}
