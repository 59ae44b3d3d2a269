package planner

import (
	"context"
	"fmt"
)

// TripBundle is a trip together with everything stored for it.
type TripBundle struct {
	Trip            Trip       `json:"trip" yaml:"trip"`
	Notes           []Note     `json:"notes" yaml:"notes"`
	RestaurantNotes []Note     `json:"restaurantNotes" yaml:"restaurantNotes"`
	SightNotes      []Note     `json:"sightNotes" yaml:"sightNotes"`
	Todos           []TodoItem `json:"todos" yaml:"todos"`
	PackingList     []PackItem `json:"packingList" yaml:"packingList"`
}

// Bundle collects a trip and all of its collections.
// Returns ErrNotFound if the trip does not exist.
func (r *Repository) Bundle(ctx context.Context, tripID ID) (TripBundle, error) {
	trip, err := r.GetTrip(ctx, tripID)
	if err != nil {
		return TripBundle{}, err
	}

	b := TripBundle{Trip: trip}
	if b.Notes, err = r.notes.List(ctx, tripID); err != nil {
		return TripBundle{}, fmt.Errorf("bundling trip %s: %w", tripID, err)
	}
	if b.RestaurantNotes, err = r.restaurantNotes.List(ctx, tripID); err != nil {
		return TripBundle{}, fmt.Errorf("bundling trip %s: %w", tripID, err)
	}
	if b.SightNotes, err = r.sightNotes.List(ctx, tripID); err != nil {
		return TripBundle{}, fmt.Errorf("bundling trip %s: %w", tripID, err)
	}
	if b.Todos, err = r.todos.List(ctx, tripID); err != nil {
		return TripBundle{}, fmt.Errorf("bundling trip %s: %w", tripID, err)
	}
	if b.PackingList, err = r.packingList.List(ctx, tripID); err != nil {
		return TripBundle{}, fmt.Errorf("bundling trip %s: %w", tripID, err)
	}
	return b, nil
}
