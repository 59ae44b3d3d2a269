package planner

import (
	"fmt"
	"math"
	"time"
)

const (
	// DateLayout is the calendar-day format used by todos and TripDays.
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
	day         = 24 * time.Hour
)

// ParseDate parses a trip date. It accepts a plain calendar date or an
// RFC 3339 timestamp; timestamps are converted to UTC before the calendar
// day is taken.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// TripDays returns every calendar day of the trip, start and end inclusive,
// formatted as YYYY-MM-DD.
func TripDays(trip Trip) ([]string, error) {
	start, err := ParseDate(trip.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(trip.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

// DaysUntil returns the number of days from now until the trip starts,
// rounded up. A trip that already started yields zero or a negative count.
func DaysUntil(trip Trip, now time.Time) (int, error) {
	start, err := parseInstant(trip.StartDate)
	if err != nil {
		return 0, err
	}
	seconds := math.Floor(start.Sub(now).Seconds())
	return int(math.Ceil(seconds / day.Seconds())), nil
}

// parseInstant keeps the time of day when the date carries one, unlike
// ParseDate which truncates to the calendar day.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", s)
	}
	return t, nil
}
