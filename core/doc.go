// Package core contains the pure domain model for library circulation:
// publications (the closed variant set Book, Magazine, DVD), patrons with
// borrowing-eligibility gating, loans with the overdue/penalty lifecycle,
// and the domain events describing what happened.
//
// The package is a functional core: no locks, no logging, no I/O. Entities
// mutate only through their defined transitions, and every read of the
// current time goes through an injected Clock, so outcomes are deterministic
// under test.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would
// be called the 'domain' layer.
package core
