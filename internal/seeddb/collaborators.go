package seeddb

import (
	"context"
	"fmt"

	"github.com/roach88/rigger/fixture"
)

// Reference collaborator implementations backed by the seed database.
// Identifiers come from a fixture.IDGenerator so production code can use
// UUIDv7 while tests plug in a deterministic sequence.

// EntityCreator creates root entities of a fixed kind.
type EntityCreator struct {
	DB   *DB
	Kind string
	IDs  fixture.IDGenerator
}

// Create persists a new root entity and returns its identifier and row.
func (c *EntityCreator) Create(ctx context.Context) (string, any, error) {
	e := Entity{ID: c.IDs.Generate(), Kind: c.Kind}
	if err := c.DB.Insert(ctx, e); err != nil {
		return "", nil, err
	}
	return e.ID, e, nil
}

// ChildCreator creates entities linked to the most recent record.
type ChildCreator struct {
	DB   *DB
	Kind string
	IDs  fixture.IDGenerator
}

// CreateRelated persists a new entity whose parent is the given record.
func (c *ChildCreator) CreateRelated(ctx context.Context, parentID string) (string, any, error) {
	e := Entity{ID: c.IDs.Generate(), Kind: c.Kind, ParentID: parentID}
	if err := c.DB.Insert(ctx, e); err != nil {
		return "", nil, err
	}
	return e.ID, e, nil
}

// SiblingCreator creates entities that share the parent of a given
// entity, working from the row payload rather than the identifier.
type SiblingCreator struct {
	DB   *DB
	Kind string
	IDs  fixture.IDGenerator
}

// CreateFromParent persists a new entity alongside the given one,
// inheriting its parent link.
func (c *SiblingCreator) CreateFromParent(ctx context.Context, parent Entity) (string, any, error) {
	e := Entity{ID: c.IDs.Generate(), Kind: c.Kind, ParentID: parent.ParentID}
	if err := c.DB.Insert(ctx, e); err != nil {
		return "", nil, err
	}
	return e.ID, e, nil
}

// EntityValidator asserts that the aggregate entity exists, optionally
// with an expected kind.
type EntityValidator struct {
	DB *DB

	// WantKind, when non-empty, additionally checks the entity's kind.
	WantKind string
}

// Validate fails when the aggregate entity is missing or has the wrong
// kind. Missing rows are ordinary retryable failures; eventual
// consistency in a real backing system looks exactly like this.
func (v *EntityValidator) Validate(ctx context.Context, aggregateID string) error {
	e, err := v.DB.Get(ctx, aggregateID)
	if err != nil {
		return err
	}
	if v.WantKind != "" && e.Kind != v.WantKind {
		return fmt.Errorf("entity %s has kind %q, want %q", aggregateID, e.Kind, v.WantKind)
	}
	return nil
}

// EntityCleaner deletes every created entity from the seed database.
type EntityCleaner struct {
	DB *DB
}

// Cleanup deletes the records in reverse insertion order so children go
// before their parents and the foreign key check stays satisfied.
func (c *EntityCleaner) Cleanup(ctx context.Context, records []fixture.Record[string], _ string) error {
	for i := len(records) - 1; i >= 0; i-- {
		if err := c.DB.Delete(ctx, records[i].ID); err != nil {
			return err
		}
	}
	return nil
}
