// Package fixture implements a stateful orchestration service for building
// chains of related test-fixture records and cleaning them up afterwards.
//
// ARCHITECTURE:
//
// One Service owns one insertion-ordered record store, one aggregate
// identifier, and one retry policy. Callers chain operations fluently;
// each mutating or validating operation runs inside the retry policy, so
// transient failures in the caller-supplied collaborators are retried
// before surfacing.
//
// The actual creation, validation, and cleanup work is delegated to
// collaborator contracts (Creator, RelatedCreator, Validator, Cleaner,
// ...) supplied by the caller. The service only sequences them and
// threads the "last created record" context through the chain.
//
// Error propagation is sticky: the first unrecovered failure is recorded
// on the service, every later chained operation becomes a no-op, and the
// failure is reported by Err() and by the terminal Cleanup call. This is
// the Go rendition of an exception ending a fluent chain.
//
// The service is single-threaded by design: operations run to completion
// in the caller's goroutine, and a Service must not be shared between
// goroutines.
package fixture
