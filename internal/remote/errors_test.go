package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_Message(t *testing.T) {
	err := NewNotFoundError("delete", "2024-01-01T00:00:00.000Z")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "2024-01-01T00:00:00.000Z")

	err = NewTransientError("read_all", errors.New("connection refused"))
	assert.Contains(t, err.Error(), "TRANSIENT")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindHelpers(t *testing.T) {
	transient := NewTransientError("upsert", errors.New("boom"))
	notFound := NewNotFoundError("delete", "x")
	conflict := NewConflictError("upsert", errors.New("constraint"))

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(notFound))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))

	assert.True(t, IsConflict(conflict))
	assert.False(t, IsConflict(transient))
}

func TestKindHelpers_WrappedErrors(t *testing.T) {
	inner := NewTransientError("upsert", errors.New("boom"))
	wrapped := fmt.Errorf("sync cycle failed: %w", inner)

	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestKindHelpers_PlainErrors(t *testing.T) {
	err := errors.New("not a store error")

	assert.False(t, IsTransient(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewTransientError("read_all", cause)

	assert.ErrorIs(t, err, cause)
}
