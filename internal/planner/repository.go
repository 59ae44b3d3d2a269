package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Repository is the domain facade over a KeyedStore. It owns the keyspace,
// exposes CRUD for every per-trip collection, and keeps an in-memory mirror
// of the trips index that is hydrated once at construction and written back
// in full on every add or delete.
//
// A Repository is safe for concurrent use.
type Repository struct {
	kv     *KeyedStore
	locks  *keyLocks
	logger Logger
	idgen  IDGenerator

	mu    sync.RWMutex
	trips []Trip

	notes           *Collection[Note]
	restaurantNotes *Collection[Note]
	sightNotes      *Collection[Note]
	todos           *Collection[TodoItem]
	packingList     *Collection[PackItem]
}

// NewRepository creates a Repository over store and hydrates the trips index.
// Returns an error if the index exists but cannot be read.
func NewRepository(ctx context.Context, store Store, logger Logger, idgen IDGenerator) (*Repository, error) {
	r := &Repository{
		kv:     NewKeyedStore(store),
		locks:  newKeyLocks(),
		logger: logger,
		idgen:  idgen,
	}
	r.notes = newCollection[Note]("notes", GeneralNotes.prefix(), r)
	r.restaurantNotes = newCollection[Note]("restaurant notes", RestaurantNotes.prefix(), r)
	r.sightNotes = newCollection[Note]("sight notes", SightNotes.prefix(), r)
	r.todos = newCollection[TodoItem]("todos", todoDataPrefix, r)
	r.packingList = newCollection[PackItem]("packing list", packingListPrefix, r)

	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Notes returns the general notes collection.
func (r *Repository) Notes() *Collection[Note] { return r.notes }

// RestaurantNotes returns the restaurant notes collection.
func (r *Repository) RestaurantNotes() *Collection[Note] { return r.restaurantNotes }

// SightNotes returns the sight notes collection.
func (r *Repository) SightNotes() *Collection[Note] { return r.sightNotes }

// NotesOf returns the note collection for kind.
func (r *Repository) NotesOf(kind NoteKind) *Collection[Note] {
	switch kind {
	case RestaurantNotes:
		return r.restaurantNotes
	case SightNotes:
		return r.sightNotes
	default:
		return r.notes
	}
}

// Todos returns the itinerary collection.
func (r *Repository) Todos() *Collection[TodoItem] { return r.todos }

// PackingList returns the packing checklist collection.
func (r *Repository) PackingList() *Collection[PackItem] { return r.packingList }

// Reload replaces the in-memory trips index with the stored one.
func (r *Repository) Reload(ctx context.Context) error {
	unlock := r.locks.Lock(TripsKey)
	defer unlock()

	var trips []Trip
	err := r.kv.Get(ctx, TripsKey, &trips)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("loading trips: %w", err)
	}

	r.mu.Lock()
	r.trips = trips
	r.mu.Unlock()

	r.logger.Debug("trips loaded", "count", len(trips))
	return nil
}

// Trips returns a copy of the trips index in insertion order.
func (r *Repository) Trips() []Trip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.trips)
}

// AddTrip validates trip, assigns it a fresh id, stores its full copy and
// appends it to the trips index. Any id on the input is ignored.
func (r *Repository) AddTrip(ctx context.Context, trip Trip) (Trip, error) {
	if err := trip.Validate(); err != nil {
		return Trip{}, err
	}
	trip.ID = ID(r.idgen.New())

	unlock := r.locks.Lock(TripsKey)
	defer unlock()

	if err := r.kv.Set(ctx, TripDataKey(trip.ID), trip); err != nil {
		return Trip{}, fmt.Errorf("saving trip: %w", err)
	}

	next := append(r.Trips(), trip)
	if err := r.kv.Set(ctx, TripsKey, next); err != nil {
		if rmErr := r.kv.Remove(ctx, TripDataKey(trip.ID)); rmErr != nil {
			r.logger.Warn("orphaned trip copy left in storage", "trip_id", trip.ID, "error", rmErr)
		}
		return Trip{}, fmt.Errorf("saving trips index: %w", err)
	}

	r.mu.Lock()
	r.trips = next
	r.mu.Unlock()

	r.logger.Info("trip added", "trip_id", trip.ID, "destination", trip.Destination)
	return trip, nil
}

// GetTrip returns the stored copy of a trip.
// Returns ErrNotFound if the trip does not exist.
func (r *Repository) GetTrip(ctx context.Context, tripID ID) (Trip, error) {
	var trip Trip
	if err := r.kv.Get(ctx, TripDataKey(tripID), &trip); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Trip{}, fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
		}
		return Trip{}, fmt.Errorf("loading trip %s: %w", tripID, err)
	}
	return trip, nil
}

// DeleteTrip drops a trip from the index and then removes its stored copy.
// The trip's notes, todos and packing list are left in place; use
// PurgeTrip to remove them as well. Deleting an unknown trip is a no-op.
//
// If removing the stored copy fails the trip is already gone from the index;
// the leftover copy is unreachable and an error is returned.
func (r *Repository) DeleteTrip(ctx context.Context, tripID ID) error {
	unlock := r.locks.Lock(TripsKey)
	defer unlock()

	next := r.Trips()
	before := len(next)
	next = slices.DeleteFunc(next, func(t Trip) bool { return t.ID == tripID })
	if len(next) < before {
		if err := r.kv.Set(ctx, TripsKey, next); err != nil {
			return fmt.Errorf("saving trips index: %w", err)
		}
		r.mu.Lock()
		r.trips = next
		r.mu.Unlock()
	}

	if err := r.kv.Remove(ctx, TripDataKey(tripID)); err != nil {
		return fmt.Errorf("removing trip %s: %w", tripID, err)
	}

	if len(next) < before {
		r.logger.Info("trip deleted", "trip_id", tripID)
	}
	return nil
}

// PurgeTrip deletes a trip together with every collection stored for it.
func (r *Repository) PurgeTrip(ctx context.Context, tripID ID) error {
	if err := r.DeleteTrip(ctx, tripID); err != nil {
		return err
	}

	for _, prefix := range childPrefixes {
		key := scopedKey(prefix, tripID)
		unlock := r.locks.Lock(key)
		err := r.kv.Remove(ctx, key)
		unlock()
		if err != nil {
			return fmt.Errorf("purging trip %s: %w", tripID, err)
		}
	}

	r.logger.Info("trip purged", "trip_id", tripID)
	return nil
}
