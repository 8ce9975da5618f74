package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	StatusOK                    = 200
	StatusNoContent             = 204
	StatusBadRequest            = 400
	StatusNotFound              = 404
	StatusMethodNotAllowed      = 405
	StatusRequestTimeout        = 408
	StatusRequestEntityTooLarge = 413
	StatusInternalServerError   = 500
)

const (
	ErrorTypeValidation  = "VALIDATION_ERROR"
	ErrorTypeConflict    = "CONFLICT"
	ErrorTypePersistence = "PERSISTENCE_ERROR"
	ErrorTypeUnexpected  = "UNEXPECTED_ERROR"
)

// UnexpectedErrorMessage is the only text a caller ever sees for errors outside the taxonomy.
const UnexpectedErrorMessage = "An unexpected error occurred"

// Postgres SQLSTATE codes the store reports.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(message string, err error) *AppError {
	return NewAppError(ErrorTypeValidation, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(ErrorTypePersistence, message, err)
}

func NewUnexpectedError(err error) *AppError {
	return NewAppError(ErrorTypeUnexpected, UnexpectedErrorMessage, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnexpected
}

func IsConflict(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsDuplicateKeyError reports whether err is the store rejecting a row because of a unique
// constraint. It understands gorm's translated error, pgx errors and sqlite's message text.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint")
}

// IsUndefinedTableError reports whether err means the waitlist table has not been created.
func IsUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	return strings.Contains(strings.ToLower(err.Error()), "no such table")
}
