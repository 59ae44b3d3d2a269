package store

import (
	"bytes"
	"context"
	"fmt"

	"tripplan/internal/planner"
)

// SealedStore encrypts values before handing them to the inner store and
// decrypts them on the way out. Keys are stored in the clear.
//
// A SealedStore without a DecryptionContext can write but not read; Get
// then fails with ErrLocked.
type SealedStore struct {
	inner planner.Store
	enc   planner.Encryptor
	dec   planner.DecryptionContext
}

// ErrLocked is returned by SealedStore.Get when no passphrase was supplied.
var ErrLocked = fmt.Errorf("store is locked: passphrase required")

var _ planner.Store = (*SealedStore)(nil)

// NewSealedStore wraps inner. dec may be nil for write-only use.
func NewSealedStore(inner planner.Store, enc planner.Encryptor, dec planner.DecryptionContext) *SealedStore {
	return &SealedStore{inner: inner, enc: enc, dec: dec}
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.dec == nil {
		return nil, ErrLocked
	}
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.dec.Decrypt(bytes.NewReader(sealed), &buf); err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	var buf bytes.Buffer
	if err := s.enc.Encrypt(bytes.NewReader(value), &buf); err != nil {
		return fmt.Errorf("encrypting %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, buf.Bytes())
}

func (s *SealedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}
