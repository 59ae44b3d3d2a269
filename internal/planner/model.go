package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ID identifies a trip or a collection item.
// Older data stored item ids as millisecond timestamps (JSON numbers), so
// decoding accepts both numbers and strings; encoding always writes a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Item is satisfied by every collection element type.
type Item[T any] interface {
	// ItemID returns the element's id within its collection.
	ItemID() ID
	// WithID returns a copy of the element carrying id.
	WithID(id ID) T
	// Validate checks the element's business rules.
	Validate() error
}

// Trip is the top-level planning unit.
// StartDate and EndDate are ISO-8601 strings: either a calendar date
// ("2025-06-01") or a full RFC 3339 timestamp.
type Trip struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Destination string `json:"destination" yaml:"destination"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
}

// Validate checks that the trip has a name, a destination, and a date range
// whose end is not before its start.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return validationf("trip name is required")
	}
	if strings.TrimSpace(t.Destination) == "" {
		return validationf("trip destination is required")
	}

	start, err := ParseDate(t.StartDate)
	if err != nil {
		return validationf("start date: %v", err)
	}
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return validationf("end date: %v", err)
	}
	if end.Before(start) {
		return validationf("end date %s is before start date %s", t.EndDate, t.StartDate)
	}
	return nil
}

// NoteKind selects one of the three note namespaces of a trip.
type NoteKind string

const (
	GeneralNotes    NoteKind = "notes"
	RestaurantNotes NoteKind = "restaurants"
	SightNotes      NoteKind = "sights"
)

// NoteKinds lists the valid kinds in display order.
var NoteKinds = []NoteKind{GeneralNotes, RestaurantNotes, SightNotes}

// ParseNoteKind maps a user-supplied string to a NoteKind.
func ParseNoteKind(s string) (NoteKind, error) {
	for _, k := range NoteKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", validationf("unknown note kind %q (want notes, restaurants or sights)", s)
}

func (k NoteKind) prefix() string {
	switch k {
	case RestaurantNotes:
		return restaurantNotesPrefix
	case SightNotes:
		return sightNotesPrefix
	default:
		return tripNotesPrefix
	}
}

// Note is a titled free-form entry. Content is either text or a link.
type Note struct {
	ID      ID     `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

var linkPattern = regexp.MustCompile(`^(http://|https://)`)

// IsLink reports whether the note's content is a web link.
func (n Note) IsLink() bool {
	return linkPattern.MatchString(n.Content)
}

func (n Note) ItemID() ID { return n.ID }

func (n Note) WithID(id ID) Note {
	n.ID = id
	return n
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return validationf("note title is required")
	}
	return nil
}

// TodoItem is one itinerary entry on a given day of a trip.
type TodoItem struct {
	ID        ID     `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	StartTime string `json:"startTime" yaml:"startTime"` // HH:MM
	EndTime   string `json:"endTime" yaml:"endTime"`     // HH:MM
	Date      string `json:"date" yaml:"date"`           // YYYY-MM-DD
}

func (t TodoItem) ItemID() ID { return t.ID }

func (t TodoItem) WithID(id ID) TodoItem {
	t.ID = id
	return t
}

func (t TodoItem) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return validationf("todo text is required")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return validationf("todo date %q must be YYYY-MM-DD", t.Date)
	}
	if _, err := time.Parse(clockLayout, t.StartTime); err != nil {
		return validationf("todo start time %q must be HH:MM", t.StartTime)
	}
	if _, err := time.Parse(clockLayout, t.EndTime); err != nil {
		return validationf("todo end time %q must be HH:MM", t.EndTime)
	}
	return nil
}

// PackItem is one entry of a packing checklist.
type PackItem struct {
	ID      ID     `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Checked bool   `json:"checked" yaml:"checked"`
}

func (p PackItem) ItemID() ID { return p.ID }

func (p PackItem) WithID(id ID) PackItem {
	p.ID = id
	return p
}

func (p PackItem) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return validationf("pack item title is required")
	}
	return nil
}
