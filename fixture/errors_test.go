package fixture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateError_Message(t *testing.T) {
	err := NewPreconditionError("assign_aggregate_id", "records required before assigning aggregate id")
	assert.Equal(t, "PRECONDITION: assign_aggregate_id: records required before assigning aggregate id", err.Error())
}

func TestStateError_MessageWithoutOp(t *testing.T) {
	err := &StateError{Code: ErrCodePrecondition, Message: "store is empty"}
	assert.Equal(t, "PRECONDITION: store is empty", err.Error())
}

func TestIsPrecondition_Wrapped(t *testing.T) {
	err := fmt.Errorf("running step: %w", NewPreconditionError("store.last", "store is empty"))

	assert.True(t, IsPrecondition(err))
	assert.False(t, IsTypeMismatch(err))
	assert.False(t, IsDuplicateKey(err))
}

func TestIsTypeMismatch(t *testing.T) {
	err := NewTypeMismatchError("create_from_parent", "fixture.user", "string")

	assert.True(t, IsTypeMismatch(err))
	assert.Equal(t, "fixture.user", err.Details["want"])
	assert.Equal(t, "string", err.Details["got"])
}

func TestIsDuplicateKey(t *testing.T) {
	err := NewDuplicateKeyError("store.insert", "R1")

	assert.True(t, IsDuplicateKey(err))
	assert.Equal(t, "R1", err.Details["key"])
}

func TestHelpers_NonStateErrors(t *testing.T) {
	err := errors.New("plain")

	assert.False(t, IsPrecondition(err))
	assert.False(t, IsTypeMismatch(err))
	assert.False(t, IsDuplicateKey(err))
	assert.False(t, IsPrecondition(nil))
}
