package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/roach88/rigger/retry"
)

// RelationMode controls what the related-record operations do when no
// records exist yet.
type RelationMode int

const (
	// RelationSkip silently skips the related-creation body when the store
	// is empty. This matches the historical behavior that existing call
	// sites depend on, at the cost of masking ordering mistakes.
	RelationSkip RelationMode = iota

	// RelationStrict fails related-creation on an empty store with a
	// precondition error.
	RelationStrict
)

// Service is the orchestration engine for one test scenario. It owns one
// record store, one aggregate identifier, and one retry policy, and
// exposes the fluent chaining API.
//
// A Service accumulates records monotonically over its lifetime and is
// discarded at end of scenario. It is not safe for concurrent use.
type Service[K comparable] struct {
	store       *Store[K]
	aggregateID K
	policy      *retry.Policy
	ctx         context.Context
	logger      *slog.Logger
	relations   RelationMode

	// err is the sticky chain error. Once set, every later chained
	// operation is a no-op and the error surfaces via Err() and Cleanup.
	err error
}

// Option configures a Service at construction time.
type Option[K comparable] func(*Service[K])

// WithPolicy replaces the default retry policy.
func WithPolicy[K comparable](p *retry.Policy) Option[K] {
	return func(s *Service[K]) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithContext sets the context passed to collaborators and used for
// backoff waits. Defaults to context.Background().
func WithContext[K comparable](ctx context.Context) Option[K] {
	return func(s *Service[K]) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger[K comparable](l *slog.Logger) Option[K] {
	return func(s *Service[K]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRelationMode selects the empty-store behavior of the related-record
// operations. Defaults to RelationSkip.
func WithRelationMode[K comparable](mode RelationMode) Option[K] {
	return func(s *Service[K]) {
		s.relations = mode
	}
}

// New creates a Service for one scenario with the given aggregate
// identifier. With no options it uses the default retry policy
// (5 attempts, 3^attempt second backoff, all non-fatal failures retried).
func New[K comparable](aggregateID K, opts ...Option[K]) *Service[K] {
	s := &Service[K]{
		store:       NewStore[K](),
		aggregateID: aggregateID,
		policy:      retry.Default(),
		ctx:         context.Background(),
		logger:      slog.Default(),
		relations:   RelationSkip,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create invokes the creator and inserts the resulting record. It has no
// precondition and may be the very first operation in a chain.
func (s *Service[K]) Create(c Creator[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	s.run(func() error {
		id, row, err := c.Create(s.ctx)
		if err != nil {
			return err
		}
		return s.insert("create", id, row)
	})
	return s
}

// CreateRelated invokes the creator with the identifier of the most
// recently created record and inserts the result.
//
// Empty-store behavior depends on the relation mode: RelationSkip makes
// the call a no-op, RelationStrict records a precondition error.
func (s *Service[K]) CreateRelated(c RelatedCreator[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	if !s.requireRelatable("create_related") {
		return s
	}
	last, err := s.store.Last()
	if err != nil {
		s.err = err
		return s
	}
	s.run(func() error {
		id, row, err := c.CreateRelated(s.ctx, last.ID)
		if err != nil {
			return err
		}
		return s.insert("create_related", id, row)
	})
	return s
}

// CreateFromAll invokes the creator with the full ordered sequence of
// record identifiers and inserts the result. Empty-store behavior follows
// the relation mode, as with CreateRelated.
func (s *Service[K]) CreateFromAll(c CompositeCreator[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	if !s.requireRelatable("create_from_all") {
		return s
	}
	keys := s.store.Keys()
	s.run(func() error {
		id, row, err := c.CreateFromAll(s.ctx, keys)
		if err != nil {
			return err
		}
		return s.insert("create_from_all", id, row)
	})
	return s
}

// CreateFromParent invokes the creator with the row payload of the most
// recently created record, typed as the parent type P. A row whose
// concrete type is not P fails with a TYPE_MISMATCH error; the mismatch
// cannot heal on its own, so it is not retried.
//
// This is a package-level function because Go methods cannot introduce
// the extra parent type parameter.
func CreateFromParent[K comparable, P any](s *Service[K], c ParentCreator[K, P]) *Service[K] {
	if s.err != nil {
		return s
	}
	if !s.requireRelatable("create_from_parent") {
		return s
	}
	last, err := s.store.Last()
	if err != nil {
		s.err = err
		return s
	}
	s.run(func() error {
		parent, ok := last.Row.(P)
		if !ok {
			want := reflect.TypeOf((*P)(nil)).Elem().String()
			return retry.Fatal(NewTypeMismatchError("create_from_parent", want, fmt.Sprintf("%T", last.Row)))
		}
		id, row, err := c.CreateFromParent(s.ctx, parent)
		if err != nil {
			return err
		}
		return s.insert("create_from_parent", id, row)
	})
	return s
}

// Assert invokes the validator with the aggregate identifier under the
// retry policy. Retrying an assertion is intentional: it lets assertions
// race a backing system that is not yet consistent. A hard logical
// failure burns the full attempt budget before surfacing.
func (s *Service[K]) Assert(v Validator[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	s.run(func() error {
		return v.Validate(s.ctx, s.aggregateID)
	})
	return s
}

// If invokes build with the service when cond is true. The builder's
// RETURN VALUE IS DISCARDED: If always returns the original receiver, so
// a builder that returns a different service has no effect on the chain.
// Mutations the builder performs through the shared receiver do persist.
func (s *Service[K]) If(cond bool, build func(*Service[K]) *Service[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	if cond && build != nil {
		_ = build(s)
	}
	return s
}

// ExecuteAction invokes the action with the identifier of the most
// recently created record. Fails with a precondition error when no
// records exist; the precondition is raised immediately, not retried.
func (s *Service[K]) ExecuteAction(a Action[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	last, err := s.store.Last()
	if err != nil {
		s.err = NewPreconditionError("execute_action", "records required before action")
		return s
	}
	s.run(func() error {
		return a.Execute(s.ctx, last.ID)
	})
	return s
}

// ExecuteAggregateAction invokes the action with the aggregate
// identifier. It has no store precondition.
func (s *Service[K]) ExecuteAggregateAction(a Action[K]) *Service[K] {
	if s.err != nil {
		return s
	}
	s.run(func() error {
		return a.Execute(s.ctx, s.aggregateID)
	})
	return s
}

// WaitFor blocks until the waiter succeeds, under the service's retry
// policy.
func (s *Service[K]) WaitFor(w Waiter) *Service[K] {
	if s.err != nil {
		return s
	}
	s.run(func() error {
		return w.Wait(s.ctx)
	})
	return s
}

// WaitForUsing blocks until the waiter succeeds, under a caller-supplied
// retry policy instead of the service's own. Useful for per-call tuning,
// e.g. a longer budget for one slow asynchronous wait.
func (s *Service[K]) WaitForUsing(w Waiter, p *retry.Policy) *Service[K] {
	if s.err != nil {
		return s
	}
	if p == nil {
		p = s.policy
	}
	if err := p.Do(s.ctx, func() error { return w.Wait(s.ctx) }); err != nil {
		s.fail("wait_for", err)
	}
	return s
}

// PreExecution runs a setup step with no store interaction under the
// retry policy.
func (s *Service[K]) PreExecution(p PreAction) *Service[K] {
	if s.err != nil {
		return s
	}
	s.run(func() error {
		return p.Run(s.ctx)
	})
	return s
}

// AssignAggregateID sets the aggregate identifier to the key of the most
// recently created record. Fails with a precondition error when no
// records exist.
func (s *Service[K]) AssignAggregateID() *Service[K] {
	if s.err != nil {
		return s
	}
	last, err := s.store.Last()
	if err != nil {
		s.err = NewPreconditionError("assign_aggregate_id", "records required before assigning aggregate id")
		return s
	}
	s.aggregateID = last.ID
	s.logger.Debug("aggregate id assigned", "id", last.ID)
	return s
}

// Cleanup invokes the cleaner with the full ordered record snapshot and
// the aggregate identifier, under the retry policy. Terminal: it returns
// an error instead of the service.
//
// Cleanup runs even when the chain already failed, so records created
// before the failure are still torn down. The returned error joins the
// chain error (if any) with the cleanup error (if any).
func (s *Service[K]) Cleanup(c Cleaner[K]) error {
	records := s.store.Records()
	cleanupErr := s.policy.Do(s.ctx, func() error {
		return c.Cleanup(s.ctx, records, s.aggregateID)
	})
	if cleanupErr != nil {
		s.logger.Error("cleanup failed", "error", cleanupErr, "records", len(records))
	} else {
		s.logger.Debug("cleanup complete", "records", len(records))
	}
	return errors.Join(s.err, cleanupErr)
}

// AggregateID returns the current aggregate identifier.
func (s *Service[K]) AggregateID() K {
	return s.aggregateID
}

// RecordCount returns the number of created records.
func (s *Service[K]) RecordCount() int {
	return s.store.Count()
}

// Keys returns all record identifiers in creation order.
func (s *Service[K]) Keys() []K {
	return s.store.Keys()
}

// Err returns the sticky chain error, or nil if every operation so far
// succeeded.
func (s *Service[K]) Err() error {
	return s.err
}

// run executes fn under the retry policy and records the first
// unrecovered failure as the sticky chain error.
func (s *Service[K]) run(fn func() error) {
	if err := s.policy.Do(s.ctx, fn); err != nil {
		s.fail("", err)
	}
}

func (s *Service[K]) fail(op string, err error) {
	s.err = err
	if op != "" {
		s.logger.Debug("chain failed", "op", op, "error", err)
	} else {
		s.logger.Debug("chain failed", "error", err)
	}
}

// insert adds a record and logs it. Duplicate keys are programmer errors
// and marked fatal so the policy does not retry them.
func (s *Service[K]) insert(op string, id K, row any) error {
	if err := s.store.Insert(id, row); err != nil {
		return retry.Fatal(err)
	}
	s.logger.Debug("record created", "op", op, "id", id, "count", s.store.Count())
	return nil
}

// requireRelatable gates the related-creation operations on a non-empty
// store. Returns true when the body should execute. In RelationStrict
// mode an empty store records a precondition error.
func (s *Service[K]) requireRelatable(op string) bool {
	if s.store.Any() {
		return true
	}
	if s.relations == RelationStrict {
		s.err = NewPreconditionError(op, "records required before related creation")
		return false
	}
	s.logger.Debug("related creation skipped: store is empty", "op", op)
	return false
}
