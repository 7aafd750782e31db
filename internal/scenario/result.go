package scenario

// TraceEvent records one executed (or skipped) step.
type TraceEvent struct {
	Op          string   `json:"op"`
	ID          string   `json:"id,omitempty"`
	Parent      string   `json:"parent,omitempty"`
	Parents     []string `json:"parents,omitempty"`
	ParentKind  string   `json:"parent_kind,omitempty"`
	Attempts    int      `json:"attempts,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
	AggregateID string   `json:"aggregate_id,omitempty"`
	Records     []string `json:"records,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step completed and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order. Used for
	// golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failure messages.
	// Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final state, evaluated by assertions.
	RecordCount int      `json:"record_count"`
	Keys        []string `json:"keys,omitempty"`
	AggregateID string   `json:"aggregate_id"`

	// CleanupKeys are the record identifiers the cleaner received, in
	// order. Nil when the scenario did not request cleanup.
	CleanupKeys []string `json:"cleanup_keys,omitempty"`

	// CleanupRan distinguishes "cleanup received zero records" from
	// "cleanup never requested".
	CleanupRan bool `json:"-"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}}
}

// AddError records a failure message and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// AddEvent appends a trace event.
func (r *Result) AddEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
