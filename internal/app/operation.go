package app

import (
	"time"

	"tripplan/internal/planner"
)

// Operation identifies one CLI invocation or server run. Its ID tags every
// log line written while it is active, so the lines of a single command can
// be grepped out of the shared log file.
type Operation struct {
	ID      string
	Name    string
	Started time.Time
}

// NewOperation creates an Operation named name, started now.
func NewOperation(name string, clock planner.Clock) *Operation {
	now := clock.Now().UTC()
	return &Operation{
		ID:      now.Format("20060102T150405Z"),
		Name:    name,
		Started: now,
	}
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed(clock planner.Clock) time.Duration {
	return clock.Now().Sub(op.Started)
}
