// Package journal provides the in-memory, append-only history of
// circulation domain events.
//
// Entries are kept as Record values: scalar DTOs (event id, type, timestamp,
// JSON payload) that are completely agnostic of the domain event
// implementation, so an embedding caller can export, persist, or replay
// history without depending on the domain packages. The journal itself never
// leaves the process; persistence and transport stay with the caller.
package journal
