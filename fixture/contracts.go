package fixture

import "context"

// Collaborator contracts consumed by the Service. All implementations are
// caller-supplied; the service treats them as opaque and only sequences
// their invocations, threading record identifiers through the chain.

// Creator produces a new record from no input.
type Creator[K comparable] interface {
	Create(ctx context.Context) (K, any, error)
}

// RelatedCreator produces a record derived from the identifier of the
// most recently created record.
type RelatedCreator[K comparable] interface {
	CreateRelated(ctx context.Context, parentID K) (K, any, error)
}

// ParentCreator produces a record derived from the row payload of the
// most recently created record, typed as the expected parent type P.
type ParentCreator[K comparable, P any] interface {
	CreateFromParent(ctx context.Context, parent P) (K, any, error)
}

// CompositeCreator produces a record derived from the ordered sequence of
// all prior record identifiers.
type CompositeCreator[K comparable] interface {
	CreateFromAll(ctx context.Context, ids []K) (K, any, error)
}

// Validator checks an assertion against the aggregate identifier.
// A non-nil error signals an assertion violation.
type Validator[K comparable] interface {
	Validate(ctx context.Context, aggregateID K) error
}

// Cleaner tears down all created records. It receives the full ordered
// record snapshot plus the aggregate identifier.
type Cleaner[K comparable] interface {
	Cleanup(ctx context.Context, records []Record[K], aggregateID K) error
}

// Action performs a side effect against a single record identifier.
type Action[K comparable] interface {
	Execute(ctx context.Context, id K) error
}

// Waiter blocks until a condition is satisfied or fails.
type Waiter interface {
	Wait(ctx context.Context) error
}

// PreAction performs a setup step with no store interaction.
type PreAction interface {
	Run(ctx context.Context) error
}

// Func adapters, in the http.HandlerFunc mold, so closures can satisfy
// the single-method contracts without a named type.

// CreatorFunc adapts a function to the Creator contract.
type CreatorFunc[K comparable] func(ctx context.Context) (K, any, error)

func (f CreatorFunc[K]) Create(ctx context.Context) (K, any, error) { return f(ctx) }

// RelatedCreatorFunc adapts a function to the RelatedCreator contract.
type RelatedCreatorFunc[K comparable] func(ctx context.Context, parentID K) (K, any, error)

func (f RelatedCreatorFunc[K]) CreateRelated(ctx context.Context, parentID K) (K, any, error) {
	return f(ctx, parentID)
}

// CompositeCreatorFunc adapts a function to the CompositeCreator contract.
type CompositeCreatorFunc[K comparable] func(ctx context.Context, ids []K) (K, any, error)

func (f CompositeCreatorFunc[K]) CreateFromAll(ctx context.Context, ids []K) (K, any, error) {
	return f(ctx, ids)
}

// ValidatorFunc adapts a function to the Validator contract.
type ValidatorFunc[K comparable] func(ctx context.Context, aggregateID K) error

func (f ValidatorFunc[K]) Validate(ctx context.Context, aggregateID K) error {
	return f(ctx, aggregateID)
}

// CleanerFunc adapts a function to the Cleaner contract.
type CleanerFunc[K comparable] func(ctx context.Context, records []Record[K], aggregateID K) error

func (f CleanerFunc[K]) Cleanup(ctx context.Context, records []Record[K], aggregateID K) error {
	return f(ctx, records, aggregateID)
}

// ActionFunc adapts a function to the Action contract.
type ActionFunc[K comparable] func(ctx context.Context, id K) error

func (f ActionFunc[K]) Execute(ctx context.Context, id K) error { return f(ctx, id) }

// WaiterFunc adapts a function to the Waiter contract.
type WaiterFunc func(ctx context.Context) error

func (f WaiterFunc) Wait(ctx context.Context) error { return f(ctx) }

// PreActionFunc adapts a function to the PreAction contract.
type PreActionFunc func(ctx context.Context) error

func (f PreActionFunc) Run(ctx context.Context) error { return f(ctx) }
