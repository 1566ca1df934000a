// Package catalog provides the coordinating service for the circulation
// domain: it owns the publications, patrons, and loans, and exposes the
// lending operations as one serialized unit.
//
// The catalog is the imperative shell around the functional core in the
// core package. It resolves entities, checks business rules, performs the
// mutations of one operation atomically under a single mutex, and appends
// a journal record for everything that happened, including refused
// operations.
//
// Key behaviors:
//   - CreateLoan treats resolve, eligibility, availability, and mutation
//     as one atomic unit; a failed check leaves all entities untouched
//   - loan ids are assigned sequentially starting at 1 and are never
//     burned by refused operations
//   - overdue status is derived from the injected clock on every call,
//     never cached
//   - observability is optional and dependency-free: loggers, metrics,
//     and tracing collectors are plugged in via functional options
//
// Usage example:
//
//	lib, _ := catalog.New(
//		catalog.WithClock(clock),
//		catalog.WithLogger(logger),
//	)
//
//	book := core.BuildBook(id, "Domain-Driven Design", 2003, "Eric Evans", "978-0321125217")
//	_ = lib.RegisterPublication(ctx, book)
//
//	loan, err := lib.CreateLoan(ctx, patronID, book.ID(), 0)
//	if err != nil {
//		// handle refusal
//	}
//	_ = lib.ReturnLoan(ctx, loan.ID())
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would
// be called the 'application service' layer.
package catalog
