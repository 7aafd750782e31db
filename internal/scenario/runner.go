package scenario

import (
	"context"
	"fmt"

	"github.com/roach88/rigger/fixture"
	"github.com/roach88/rigger/internal/testutil"
	"github.com/roach88/rigger/retry"
)

// Row is the payload scripted creators produce. Every scenario record
// carries one, which also makes the by-value (typed parent) creation path
// exercisable from YAML.
type Row struct {
	Kind string `json:"kind"`
}

// parentCreatorFunc adapts a closure to the ParentCreator contract.
type parentCreatorFunc func(ctx context.Context, parent Row) (string, any, error)

func (f parentCreatorFunc) CreateFromParent(ctx context.Context, parent Row) (string, any, error) {
	return f(ctx, parent)
}

// Run executes a scenario against a real fixture service with scripted
// collaborators and returns the result.
//
// Backoff waits are suppressed (the retry policy runs with a zero-wait
// backoff) so runs are fast and deterministic; the scenario's retry
// config tunes only the attempt budget.
func Run(s *Scenario) (*Result, error) {
	maxAttempts := retry.DefaultMaxAttempts
	if s.Retry != nil {
		maxAttempts = s.Retry.MaxAttempts
	}

	mode := fixture.RelationSkip
	if s.Relations == "strict" {
		mode = fixture.RelationStrict
	}

	svc := fixture.New(s.AggregateID,
		fixture.WithPolicy[string](testutil.NoDelayPolicy(maxAttempts)),
		fixture.WithRelationMode[string](mode),
		fixture.WithLogger[string](testutil.SilentLogger()),
	)

	result := NewResult()
	for i, step := range s.Steps {
		ev := runStep(svc, &step)
		if err := svc.Err(); err != nil {
			ev.Error = err.Error()
			result.AddEvent(ev)
			result.AddError(fmt.Sprintf("step %d (%s): %v", i, ev.Op, err))
			break
		}
		result.AddEvent(ev)
	}

	if s.Cleanup {
		runCleanup(svc, result)
	}

	result.RecordCount = svc.RecordCount()
	result.Keys = svc.Keys()
	result.AggregateID = svc.AggregateID()

	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// runStep executes one step through the service and reports what happened.
func runStep(svc *fixture.Service[string], step *Step) TraceEvent {
	switch {
	case step.Create != nil:
		spec := step.Create
		attempts := 0
		svc.Create(fixture.CreatorFunc[string](func(context.Context) (string, any, error) {
			attempts++
			if attempts <= spec.FailFirst {
				return "", nil, fmt.Errorf("scripted create failure %d/%d", attempts, spec.FailFirst)
			}
			return spec.ID, Row{Kind: spec.Kind}, nil
		}))
		return TraceEvent{Op: "create", ID: spec.ID, Attempts: attempts}

	case step.CreateRelated != nil:
		spec := step.CreateRelated
		attempts := 0
		var parent string
		svc.CreateRelated(fixture.RelatedCreatorFunc[string](func(_ context.Context, parentID string) (string, any, error) {
			attempts++
			parent = parentID
			if attempts <= spec.FailFirst {
				return "", nil, fmt.Errorf("scripted create failure %d/%d", attempts, spec.FailFirst)
			}
			return spec.ID, Row{Kind: spec.Kind}, nil
		}))
		if attempts == 0 && svc.Err() == nil {
			return TraceEvent{Op: "create_related", ID: spec.ID, Skipped: true}
		}
		return TraceEvent{Op: "create_related", ID: spec.ID, Parent: parent, Attempts: attempts}

	case step.CreateFromParent != nil:
		spec := step.CreateFromParent
		attempts := 0
		var parentKind string
		fixture.CreateFromParent[string, Row](svc, parentCreatorFunc(func(_ context.Context, parent Row) (string, any, error) {
			attempts++
			parentKind = parent.Kind
			if attempts <= spec.FailFirst {
				return "", nil, fmt.Errorf("scripted create failure %d/%d", attempts, spec.FailFirst)
			}
			return spec.ID, Row{Kind: spec.Kind}, nil
		}))
		if attempts == 0 && svc.Err() == nil {
			return TraceEvent{Op: "create_from_parent", ID: spec.ID, Skipped: true}
		}
		return TraceEvent{Op: "create_from_parent", ID: spec.ID, ParentKind: parentKind, Attempts: attempts}

	case step.CreateFromAll != nil:
		spec := step.CreateFromAll
		attempts := 0
		var parents []string
		svc.CreateFromAll(fixture.CompositeCreatorFunc[string](func(_ context.Context, ids []string) (string, any, error) {
			attempts++
			parents = ids
			if attempts <= spec.FailFirst {
				return "", nil, fmt.Errorf("scripted create failure %d/%d", attempts, spec.FailFirst)
			}
			return spec.ID, Row{Kind: spec.Kind}, nil
		}))
		if attempts == 0 && svc.Err() == nil {
			return TraceEvent{Op: "create_from_all", ID: spec.ID, Skipped: true}
		}
		return TraceEvent{Op: "create_from_all", ID: spec.ID, Parents: parents, Attempts: attempts}

	case step.AssignAggregate != nil:
		svc.AssignAggregateID()
		return TraceEvent{Op: "assign_aggregate", AggregateID: svc.AggregateID()}

	case step.Assert != nil:
		spec := step.Assert
		attempts := 0
		svc.Assert(fixture.ValidatorFunc[string](func(_ context.Context, aggregateID string) error {
			attempts++
			if attempts <= spec.FailFirst {
				return fmt.Errorf("scripted assertion failure %d/%d", attempts, spec.FailFirst)
			}
			return nil
		}))
		return TraceEvent{Op: "assert", AggregateID: svc.AggregateID(), Attempts: attempts}

	case step.Exec != nil:
		spec := step.Exec
		attempts := 0
		var target string
		action := fixture.ActionFunc[string](func(_ context.Context, id string) error {
			attempts++
			target = id
			if attempts <= spec.FailFirst {
				return fmt.Errorf("scripted action failure %d/%d", attempts, spec.FailFirst)
			}
			return nil
		})
		if spec.AgainstAggregate {
			svc.ExecuteAggregateAction(action)
		} else {
			svc.ExecuteAction(action)
		}
		return TraceEvent{Op: "exec", ID: target, Attempts: attempts}

	case step.Wait != nil:
		spec := step.Wait
		attempts := 0
		svc.WaitFor(fixture.WaiterFunc(func(context.Context) error {
			attempts++
			if attempts <= spec.SucceedAfter {
				return fmt.Errorf("scripted wait pending %d/%d", attempts, spec.SucceedAfter)
			}
			return nil
		}))
		return TraceEvent{Op: "wait", Attempts: attempts}

	case step.Pre != nil:
		attempts := 0
		svc.PreExecution(fixture.PreActionFunc(func(context.Context) error {
			attempts++
			return nil
		}))
		return TraceEvent{Op: "pre", Attempts: attempts}

	default:
		// Unreachable after validation; keep the trace honest anyway.
		return TraceEvent{Op: "unknown"}
	}
}

func runCleanup(svc *fixture.Service[string], result *Result) {
	chainErr := svc.Err()

	var keys []string
	cleanupErr := svc.Cleanup(fixture.CleanerFunc[string](func(_ context.Context, records []fixture.Record[string], _ string) error {
		keys = make([]string, 0, len(records))
		for _, r := range records {
			keys = append(keys, r.ID)
		}
		return nil
	}))

	result.CleanupRan = true
	result.CleanupKeys = keys
	result.AddEvent(TraceEvent{Op: "cleanup", Records: keys, AggregateID: svc.AggregateID()})

	// Cleanup returns the chain error joined in; only a genuinely new
	// cleanup failure needs reporting here.
	if cleanupErr != nil && chainErr == nil {
		result.AddError(fmt.Sprintf("cleanup: %v", cleanupErr))
	}
}
