package scenario

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// TraceSnapshot captures a scenario execution for golden comparison.
type TraceSnapshot struct {
	Name        string
	AggregateID string
	Pass        bool
	Trace       []TraceEvent
}

// Snapshot builds the golden-comparison view of a run.
func Snapshot(s *Scenario, result *Result) *TraceSnapshot {
	return &TraceSnapshot{
		Name:        s.Name,
		AggregateID: result.AggregateID,
		Pass:        result.Pass,
		Trace:       result.Trace,
	}
}

// MarshalCanonical serializes the snapshot deterministically: map keys
// sorted (encoding/json's map behavior), strings NFC-normalized, two-space
// indentation, trailing newline. Record identifiers and kinds come from
// YAML authored on arbitrary systems; normalization keeps golden files
// byte-stable regardless of the Unicode form the editor saved.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		trace[i] = eventMap(ev)
	}

	doc := map[string]any{
		"name":         norm.NFC.String(s.Name),
		"aggregate_id": norm.NFC.String(s.AggregateID),
		"pass":         s.Pass,
		"trace":        trace,
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// eventMap converts a trace event to a map holding only its set fields,
// with all strings NFC-normalized.
func eventMap(ev TraceEvent) map[string]any {
	m := map[string]any{"op": norm.NFC.String(ev.Op)}
	if ev.ID != "" {
		m["id"] = norm.NFC.String(ev.ID)
	}
	if ev.Parent != "" {
		m["parent"] = norm.NFC.String(ev.Parent)
	}
	if len(ev.Parents) > 0 {
		parents := make([]any, len(ev.Parents))
		for i, p := range ev.Parents {
			parents[i] = norm.NFC.String(p)
		}
		m["parents"] = parents
	}
	if ev.ParentKind != "" {
		m["parent_kind"] = norm.NFC.String(ev.ParentKind)
	}
	if ev.Attempts > 0 {
		m["attempts"] = ev.Attempts
	}
	if ev.Skipped {
		m["skipped"] = true
	}
	if ev.AggregateID != "" {
		m["aggregate_id"] = norm.NFC.String(ev.AggregateID)
	}
	if len(ev.Records) > 0 {
		records := make([]any, len(ev.Records))
		for i, r := range ev.Records {
			records[i] = norm.NFC.String(r)
		}
		m["records"] = records
	}
	if ev.Error != "" {
		m["error"] = norm.NFC.String(ev.Error)
	}
	return m
}
