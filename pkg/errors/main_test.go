package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad", nil), StatusBadRequest},
		{"conflict", NewConflictError("dup", nil), StatusBadRequest},
		{"persistence", NewPersistenceError("db down", nil), StatusInternalServerError},
		{"unexpected", NewUnexpectedError(nil), StatusInternalServerError},
		{"plain error", errors.New("boom"), StatusInternalServerError},
		{"nil", nil, StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalText(t *testing.T) {
	assert.Equal(t, UnexpectedErrorMessage, GetHumanReadableMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, UnexpectedErrorMessage, GetHumanReadableMessage(nil))

	wrapped := fmt.Errorf("insert: %w", NewPersistenceError("Failed to join waitlist. Please try again.", errors.New("timeout")))
	assert.Equal(t, "Failed to join waitlist. Please try again.", GetHumanReadableMessage(wrapped))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: waitlist_users.email")))
	assert.True(t, IsDuplicateKeyError(errors.New(`ERROR: duplicate key value violates unique constraint "waitlist_users_email_key"`)))

	assert.False(t, IsDuplicateKeyError(nil))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsDuplicateKeyError(errors.New("connection refused")))
}

func TestIsUndefinedTableError(t *testing.T) {
	assert.True(t, IsUndefinedTableError(&pgconn.PgError{Code: "42P01"}))
	assert.True(t, IsUndefinedTableError(errors.New("no such table: waitlist_users")))
	assert.False(t, IsUndefinedTableError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUndefinedTableError(nil))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, "", GetErrorType(nil))
	assert.Equal(t, ErrorTypeUnexpected, GetErrorType(errors.New("boom")))
	assert.True(t, IsConflict(fmt.Errorf("wrapped: %w", NewConflictError("dup", nil))))
	assert.False(t, IsConflict(NewValidationError("bad", nil)))
}

type formatterPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,max=5"`
}

func TestFormatValidationErrors_UsesJSONFieldNames(t *testing.T) {
	err := validator.New().Struct(&formatterPayload{Email: "toolong@example.com"})

	assert.True(t, IsBindingError(err))

	formatted := FormatValidationErrors(err, &formatterPayload{})
	assert.ElementsMatch(t, []ValidationErrorResponse{
		{Field: "name", Message: "This field is required"},
		{Field: "email", Message: "Must not exceed 5 characters"},
	}, formatted)
}

func TestFormatValidationErrors_TypeMismatch(t *testing.T) {
	var payload formatterPayload
	err := json.Unmarshal([]byte(`{"name": 42}`), &payload)

	assert.True(t, IsBindingError(err))

	formatted := FormatValidationErrors(err, &payload)
	if assert.Len(t, formatted, 1) {
		assert.Equal(t, "name", formatted[0].Field)
	}
}

func TestIsBindingError_SyntaxErrorIsNotBinding(t *testing.T) {
	var payload formatterPayload
	err := json.Unmarshal([]byte(`{not json`), &payload)

	assert.False(t, IsBindingError(err))
	assert.Nil(t, FormatValidationErrors(err, &payload))
}
