package planner

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so countdowns are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random (version 4) UUIDs. Unlike millisecond
// timestamps, two items created in the same instant never collide.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
