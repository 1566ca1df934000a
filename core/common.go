package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// EventTypeString represents an event type identifier
type EventTypeString = string

// PublicationIDString represents a publication identifier
type PublicationIDString = string

// PatronIDString represents a patron identifier
type PatronIDString = string

// LoanIDUint represents a loan identifier
type LoanIDUint = uint64

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// Clock is the single injected source for the current time. The catalog
// threads one Clock through every loan it creates, so overdue checks and
// penalty computations never sample wall-clock time on their own.
type Clock func() time.Time

// SystemClock samples the wall clock in UTC with microsecond precision.
// It is the default Clock when the embedding caller does not inject one.
func SystemClock() time.Time {
	return ToOccurredAt(time.Now())
}
