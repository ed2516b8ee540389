package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "not here", NotFound("not here").Error())

	wrapped := Wrap(errors.New("boom"), ErrCodeInternal, "operation failed")
	assert.Equal(t, "operation failed: boom", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(cause, ErrCodeInternal, "operation failed")
	assert.True(t, errors.Is(wrapped, cause))

	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
		want  bool
	}{
		{NotFound("x"), IsNotFound, true},
		{NotFoundf("missing %s", "thing"), IsNotFound, true},
		{Conflict("x"), IsConflict, true},
		{Validation("x"), IsValidation, true},
		{ValidationField("email", "bad"), IsValidation, true},
		{ForeignKey("x"), IsForeignKey, true},
		{Unavailable("x"), IsUnavailable, true},
		{Internal("x"), IsInternal, true},
		{Internalf("x %d", 1), IsInternal, true},
		{errors.New("plain"), IsNotFound, false},
		{nil, IsNotFound, false},
		{NotFound("x"), IsConflict, false},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.want, tt.check(tt.err), "case %d", i)
	}
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer context: %w", NotFound("person not found"))
	assert.True(t, IsNotFound(err))

	double := fmt.Errorf("even more: %w", err)
	assert.True(t, IsNotFound(double))
}

func TestGetCodeAndField(t *testing.T) {
	err := ValidationField("email", "email is required")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "email", GetField(err))

	require.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}
