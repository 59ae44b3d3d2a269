package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Collection is the ordered list of items stored under one key per trip.
// Every mutation reads the whole list, transforms it in memory and writes
// the whole list back, holding the key's lock for the duration so that
// concurrent writers on the same trip never lose each other's updates.
type Collection[T Item[T]] struct {
	name   string
	prefix string
	kv     *KeyedStore
	locks  *keyLocks
	idgen  IDGenerator
	logger Logger
}

func newCollection[T Item[T]](name, prefix string, r *Repository) *Collection[T] {
	return &Collection[T]{
		name:   name,
		prefix: prefix,
		kv:     r.kv,
		locks:  r.locks,
		idgen:  r.idgen,
		logger: r.logger,
	}
}

// Name returns a human-readable name for the collection (e.g. "sight notes").
func (c *Collection[T]) Name() string { return c.name }

// Key returns the storage key holding this collection for a trip.
func (c *Collection[T]) Key(tripID ID) string {
	return scopedKey(c.prefix, tripID)
}

// List returns all items of the trip's collection in stored order.
// A collection that was never written is returned as an empty slice.
func (c *Collection[T]) List(ctx context.Context, tripID ID) ([]T, error) {
	return c.load(ctx, c.Key(tripID))
}

// Get returns the item with the given id.
// Returns ErrNotFound if no such item exists.
func (c *Collection[T]) Get(ctx context.Context, tripID, itemID ID) (T, error) {
	var zero T
	items, err := c.List(ctx, tripID)
	if err != nil {
		return zero, err
	}
	i := indexOf(items, itemID)
	if i < 0 {
		return zero, fmt.Errorf("%s item %s: %w", c.name, itemID, ErrNotFound)
	}
	return items[i], nil
}

// Upsert adds or replaces an item.
// When isNew is true a fresh id is minted and the item is appended.
// Otherwise the element whose id matches item's id is replaced; if none
// matches, ErrNotFound is returned and nothing is written.
func (c *Collection[T]) Upsert(ctx context.Context, tripID ID, item T, isNew bool) (T, error) {
	var zero T
	if err := item.Validate(); err != nil {
		return zero, err
	}

	key := c.Key(tripID)
	unlock := c.locks.Lock(key)
	defer unlock()

	items, err := c.load(ctx, key)
	if err != nil {
		return zero, err
	}

	if isNew {
		item = item.WithID(ID(c.idgen.New()))
		items = append(items, item)
	} else {
		i := indexOf(items, item.ItemID())
		if i < 0 {
			return zero, fmt.Errorf("%s item %s: %w", c.name, item.ItemID(), ErrNotFound)
		}
		items[i] = item
	}

	if err := c.kv.Set(ctx, key, items); err != nil {
		return zero, fmt.Errorf("saving %s: %w", c.name, err)
	}

	c.logger.Debug("item saved", "collection", c.name, "trip_id", tripID, "item_id", item.ItemID(), "new", isNew)
	return item, nil
}

// Update applies fn to the item with the given id and stores the result.
// The item's id cannot be changed by fn.
func (c *Collection[T]) Update(ctx context.Context, tripID, itemID ID, fn func(T) T) (T, error) {
	var zero T
	key := c.Key(tripID)
	unlock := c.locks.Lock(key)
	defer unlock()

	items, err := c.load(ctx, key)
	if err != nil {
		return zero, err
	}

	i := indexOf(items, itemID)
	if i < 0 {
		return zero, fmt.Errorf("%s item %s: %w", c.name, itemID, ErrNotFound)
	}

	updated := fn(items[i]).WithID(itemID)
	if err := updated.Validate(); err != nil {
		return zero, err
	}
	items[i] = updated

	if err := c.kv.Set(ctx, key, items); err != nil {
		return zero, fmt.Errorf("saving %s: %w", c.name, err)
	}

	c.logger.Debug("item updated", "collection", c.name, "trip_id", tripID, "item_id", itemID)
	return updated, nil
}

// Delete removes the item with the given id. Deleting an id that is not
// present leaves the collection untouched and returns nil.
func (c *Collection[T]) Delete(ctx context.Context, tripID, itemID ID) error {
	key := c.Key(tripID)
	unlock := c.locks.Lock(key)
	defer unlock()

	items, err := c.load(ctx, key)
	if err != nil {
		return err
	}

	before := len(items)
	items = slices.DeleteFunc(items, func(it T) bool { return it.ItemID() == itemID })
	if len(items) == before {
		return nil
	}

	if err := c.kv.Set(ctx, key, items); err != nil {
		return fmt.Errorf("saving %s: %w", c.name, err)
	}

	c.logger.Debug("item deleted", "collection", c.name, "trip_id", tripID, "item_id", itemID)
	return nil
}

func (c *Collection[T]) load(ctx context.Context, key string) ([]T, error) {
	var items []T
	err := c.kv.Get(ctx, key, &items)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func indexOf[T Item[T]](items []T, id ID) int {
	return slices.IndexFunc(items, func(it T) bool { return it.ItemID() == id })
}
