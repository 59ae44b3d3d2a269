package planner

// Keyspace
//
// The layout matches what earlier versions of the app wrote, so existing
// data loads unchanged:
//
//	trips                     ordered list of Trip
//	tripData:{tripId}         single Trip
//	tripNotes:{tripId}        list of Note
//	restaurantNotes:{tripId}  list of Note
//	sightNotes:{tripId}       list of Note
//	todoData:{tripId}         list of TodoItem
//	packingList:{tripId}      list of PackItem
const (
	TripsKey = "trips"

	tripDataPrefix        = "tripData"
	tripNotesPrefix       = "tripNotes"
	restaurantNotesPrefix = "restaurantNotes"
	sightNotesPrefix      = "sightNotes"
	todoDataPrefix        = "todoData"
	packingListPrefix     = "packingList"
)

// TripDataKey returns the key holding the full copy of a single trip.
func TripDataKey(tripID ID) string {
	return scopedKey(tripDataPrefix, tripID)
}

// childPrefixes lists every per-trip collection prefix, in the order
// PurgeTrip removes them.
var childPrefixes = []string{
	tripNotesPrefix,
	restaurantNotesPrefix,
	sightNotesPrefix,
	todoDataPrefix,
	packingListPrefix,
}

func scopedKey(prefix string, tripID ID) string {
	return prefix + ":" + string(tripID)
}
