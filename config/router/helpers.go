package router

import (
	"net/http"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if l, ok := ctx.Request.Context().Value(log.LoggerKeyForContext).(*log.Logger); ok {
		return l
	}

	return log.NewLoggerWithJSONOutput().WithCorrelationID(ctx.Request.Context())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func BadRequestResult(message string) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message)
}

func NotFoundResult(message string) *ServiceResult {
	return ErrorResult(http.StatusNotFound, message)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message)
}

func ErrorResult(statusCode int, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorResultFromError translates any error into its public status and message.
func ErrorResultFromError(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err))
}

func HTMLResult(statusCode int, html []byte) *ViewResult {
	return &ViewResult{
		StatusCode: statusCode,
		HTML:       html,
	}
}
