package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what a JSON handler returns. Failures render as {"error": message};
// everything else as {"success": true, "message": message} plus "data" when present.
type ServiceResult struct {
	StatusCode int
	Data       any
	Message    string
}

type HandlerFunction func(*RequestContext) *ServiceResult

// ViewResult is a rendered HTML document.
type ViewResult struct {
	StatusCode int
	HTML       []byte
}

type ViewFunction func(*RequestContext) *ViewResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	if result.IsError() {
		return gin.H{"error": result.Message}
	}

	body := gin.H{
		"success": true,
		"message": result.Message,
	}
	if result.Data != nil {
		body["data"] = result.Data
	}
	return body
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
