// Package retry provides the pluggable fault-tolerance policy used by the
// fixture orchestration service.
//
// A Policy wraps a unit of work and re-executes it on failure, waiting
// between attempts according to a configurable backoff strategy. When all
// attempts are exhausted the LAST error is returned unchanged, preserving
// the caller's ability to inspect the root cause.
//
// Failures wrapped with Fatal are never retried. The orchestration service
// uses this to keep programmer errors (preconditions, type mismatches)
// out of the retry loop, while transient faults and racing assertions
// go through the full attempt budget.
//
// The sleeper is injectable so tests can observe backoff decisions without
// real sleeps.
package retry
