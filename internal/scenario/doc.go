// Package scenario provides a declarative harness for the fixture
// orchestration service.
//
// Scenarios are YAML files describing a chain of orchestration steps
// (creates, related creates, waits, assertions, cleanup) plus assertions
// on the final state. The runner executes each scenario against a real
// fixture.Service with scripted collaborators whose failure behavior is
// configured per step, which exercises the retry policy end to end.
//
// Every run produces an ordered trace. Traces serialize to canonical JSON
// (sorted keys, NFC-normalized strings) so golden-file comparison is
// byte-stable across platforms and authoring environments.
//
// Scenario files are validated twice before execution: structurally
// against an embedded CUE schema, then semantically (exactly one
// operation per step, unique record ids, assertion shapes).
package scenario
