package waitlist

import (
	"errors"
	"net/http"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
)

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, "join-waitlist", joinWaitlistHandler(service))
		},
	)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				logger.Warn("Join request body too large", "limit", tooLarge.Limit)
				return router.ErrorResult(apperrors.StatusRequestEntityTooLarge, "Request payload too large")
			case apperrors.IsBindingError(err):
				logger.Warn("Invalid join request", "errors", apperrors.FormatValidationErrors(err, &req))
				return router.BadRequestResult(MessageFieldsRequired)
			default:
				// Not JSON at all.
				logger.Error("Failed to decode join request", "error", err)
				return router.InternalServerErrorResult(apperrors.UnexpectedErrorMessage)
			}
		}

		response, err := service.Join(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResultFromError(err)
		}

		return router.OKResult(nil, response.Message)
	}
}
