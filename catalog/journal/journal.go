package journal

import (
	"sync"
	"time"
)

// Journal is an append-only, in-memory event history. It is safe for
// concurrent use; queries return defensive copies so callers can never
// mutate the history.
type Journal struct {
	mu      sync.RWMutex
	records []Record
}

// New creates an empty Journal.
func New() *Journal {
	return &Journal{}
}

// Append adds a record to the end of the history.
func (j *Journal) Append(record Record) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records = append(j.records, record)
}

// All returns a copy of the full history in append order.
func (j *Journal) All() Records {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return append(Records(nil), j.records...)
}

// OfType returns a copy of all records with the given event type, in append
// order.
func (j *Journal) OfType(eventType string) Records {
	j.mu.RLock()
	defer j.mu.RUnlock()

	matching := make(Records, 0)
	for _, record := range j.records {
		if record.EventType == eventType {
			matching = append(matching, record)
		}
	}

	return matching
}

// Since returns a copy of all records that occurred at or after t, in append
// order.
func (j *Journal) Since(t time.Time) Records {
	j.mu.RLock()
	defer j.mu.RUnlock()

	matching := make(Records, 0)
	for _, record := range j.records {
		if !record.OccurredAt.Before(t) {
			matching = append(matching, record)
		}
	}

	return matching
}

// Len returns the number of records in the history.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.records)
}
