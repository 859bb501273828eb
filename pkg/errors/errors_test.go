package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "student not found")
	wrapped := errors.Join(errors.New("outer"), typed)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "student not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "internal server error: boom", got.Error())
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "name is required")
	assert.Equal(t, "name is required", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("redis down")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to load dataset")
	assert.ErrorIs(t, err, cause)
}
