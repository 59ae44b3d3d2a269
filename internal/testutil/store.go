package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tripplan/internal/planner"
	"tripplan/internal/store"
)

// ErrInjected is returned by FailingStore for operations set to fail.
var ErrInjected = errors.New("injected storage failure")

// NewTestRepository creates a Repository over a fresh in-memory store with
// sequential IDs. The store is returned for direct inspection.
func NewTestRepository(t *testing.T) (*planner.Repository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewTestRepositoryWithStore(t, s), s
}

// NewTestRepositoryWithStore creates a Repository over s with sequential IDs.
func NewTestRepositoryWithStore(t *testing.T, s planner.Store) *planner.Repository {
	t.Helper()
	repo, err := planner.NewRepository(context.Background(), s, planner.NewNopLogger(), NewStubIDGenerator())
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	return repo
}

// SlowStore delays every Get and Set, widening the window in which
// unsynchronized read-modify-write sequences would interleave.
type SlowStore struct {
	planner.Store
	Delay time.Duration
}

func (s *SlowStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Store.Get(ctx, key)
	time.Sleep(s.Delay)
	return v, err
}

func (s *SlowStore) Set(ctx context.Context, key string, value []byte) error {
	time.Sleep(s.Delay)
	return s.Store.Set(ctx, key, value)
}

// FailingStore wraps a Store and fails the operations switched on with
// FailGet, FailSet and FailRemove. FailSetOn fails Set for one key only.
type FailingStore struct {
	planner.Store

	mu         sync.Mutex
	failGet    bool
	failSet    bool
	failRemove bool
	failSetKey string
	sets       int
}

func NewFailingStore(inner planner.Store) *FailingStore {
	return &FailingStore{Store: inner}
}

func (s *FailingStore) FailGet(fail bool)    { s.mu.Lock(); s.failGet = fail; s.mu.Unlock() }
func (s *FailingStore) FailSet(fail bool)    { s.mu.Lock(); s.failSet = fail; s.mu.Unlock() }
func (s *FailingStore) FailRemove(fail bool) { s.mu.Lock(); s.failRemove = fail; s.mu.Unlock() }

// FailSetOn makes Set fail for key; an empty key clears it.
func (s *FailingStore) FailSetOn(key string) { s.mu.Lock(); s.failSetKey = key; s.mu.Unlock() }

// Sets returns the number of Set calls that reached the inner store.
func (s *FailingStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *FailingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return s.Store.Get(ctx, key)
}

func (s *FailingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failSet || (s.failSetKey != "" && s.failSetKey == key)
	if !fail {
		s.sets++
	}
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return s.Store.Set(ctx, key, value)
}

func (s *FailingStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failRemove
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return s.Store.Remove(ctx, key)
}
