package errors

import (
	"errors"
)

// HTTPStatusCode maps an error onto the response status. Duplicates are reported as a
// client error (400), not 409, because the form treats them like any other input problem.
func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeValidation, ErrorTypeConflict:
		return StatusBadRequest
	case ErrorTypePersistence, ErrorTypeUnexpected:
		return StatusInternalServerError
	default:
		return StatusInternalServerError
	}
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return UnexpectedErrorMessage
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (DB errors, stack messages, etc.)
	return UnexpectedErrorMessage
}
