package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ErrCodeConflict},
		{"foreign key violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrCodeForeignKey},
		{"check violation", &pgconn.PgError{Code: pgerrcode.CheckViolation}, ErrCodeValidation},
		{"not null violation", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, ErrCodeValidation},
		{"other pg error", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapDBError(tt.in)
			assert.Equal(t, tt.want, GetCode(mapped))
			assert.True(t, errors.Is(mapped, tt.in), "cause must be preserved")
		})
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	plain := errors.New("something else")
	assert.Same(t, plain, MapDBError(plain))
}

func TestMapDBError_UniqueViolationField(t *testing.T) {
	t.Run("column name wins when present", func(t *testing.T) {
		mapped := MapDBError(&pgconn.PgError{
			Code:       pgerrcode.UniqueViolation,
			ColumnName: "email",
		})
		assert.Equal(t, "email", GetField(mapped))
	})

	t.Run("field is parsed from the violation detail", func(t *testing.T) {
		mapped := MapDBError(&pgconn.PgError{
			Code:   pgerrcode.UniqueViolation,
			Detail: "Key (email)=(ada@campus.example) already exists.",
		})
		assert.Equal(t, "email", GetField(mapped))
	})

	t.Run("no detail leaves the field empty", func(t *testing.T) {
		mapped := MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
		assert.Equal(t, "", GetField(mapped))
	})
}

func TestMapDBError_NotNullField(t *testing.T) {
	mapped := MapDBError(&pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "last_name",
	})
	require.True(t, IsValidation(mapped))
	assert.Equal(t, "last_name", GetField(mapped))
}
