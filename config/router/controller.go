package router

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
)

func normalizePath(controller *RESTController, relativePath string) string {
	path := controller.mountPoint

	if relativePath != "" {
		path = path + "/" + relativePath
	}

	if path[0] != '/' {
		path = "/" + path
	}

	path = strings.ReplaceAll(path, "//", "/")

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}

func (routerService *RouterService) keyForPathAndMethod(path, method string) string {
	return fmt.Sprintf("%s-%s", method, path)
}

func (controller *RESTController) bindHandlerToController(routerService *RouterService, path, method string) {
	key := routerService.keyForPathAndMethod(path, method)
	otherController, foundPrevious := routerService.handlerToControllerMap[key]

	if foundPrevious {
		panic(fmt.Sprintf("A handler is already registered for %s '%s' by controller '%s'", method, path, otherController.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			GetLogger(c).Error("Handler returned a nil result", "path", c.FullPath())
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult(apperrors.UnexpectedErrorMessage).ToJSON())
			return
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func createViewHandler(handler ViewFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			GetLogger(c).Error("View returned a nil result", "path", c.FullPath())
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult(apperrors.UnexpectedErrorMessage).ToJSON())
			return
		}

		c.Data(result.StatusCode, "text/html; charset=utf-8", result.HTML)
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	mountPoint = strings.ReplaceAll("/"+mountPoint, "//", "/")

	return &RESTController{
		name:       name,
		mountPoint: mountPoint,
		prepare:    prepare,
	}
}

func (routerService *RouterService) addRoute(
	controller *RESTController,
	method string,
	path string,
	handlers []MiddlewareFunc,
) {
	controller.handlerCount++
	mountPoint := normalizePath(controller, path)
	controller.bindHandlerToController(routerService, mountPoint, method)
	routerService.engine.Handle(method, mountPoint, handlers...)
	routerService.logger.Debug("Handler registered", "method", method, "path", mountPoint)
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, http.MethodPost, path, append(middlewares, createHandler(handler)))
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, http.MethodGet, path, append(middlewares, createHandler(handler)))
}

// AddViewHandler registers a handler that answers with an HTML document instead of the JSON
// envelope.
func (routerService *RouterService) AddViewHandler(
	controller *RESTController,
	method string,
	path string,
	handler ViewFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addRoute(controller, method, path, append(middlewares, createViewHandler(handler)))
}
