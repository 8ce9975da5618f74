package page

import (
	"bytes"
	"net/http"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/form"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/constants"
)

type pageController struct {
	submitter form.Submitter
	page      form.Page
}

// NewPageController serves the signup page at / and accepts its form-encoded post.
func NewPageController(service waitlist.WaitlistService, productName string) *router.RESTController {
	if productName == "" {
		productName = constants.DefaultProductName
	}

	ctrl := &pageController{
		submitter: NewServiceSubmitter(service),
		page:      form.Page{ProductName: productName, Action: "/"},
	}

	return router.NewRESTController(
		"PageController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddViewHandler(c, http.MethodGet, "", ctrl.show)
			rs.AddViewHandler(c, http.MethodPost, "", ctrl.submit)
		},
	)
}

func (ctrl *pageController) show(ctx *router.RequestContext) *router.ViewResult {
	f := form.New()
	f.Mount()
	return ctrl.render(ctx, http.StatusOK, f)
}

func (ctrl *pageController) submit(ctx *router.RequestContext) *router.ViewResult {
	logger := router.GetLogger(ctx)

	f := form.New()
	f.Mount()
	// Fields are never locked on a fresh form.
	_ = f.SetName(ctx.PostForm("name"))
	_ = f.SetEmail(ctx.PostForm("email"))

	if err := f.Submit(ctx.Request.Context(), ctrl.submitter); err != nil {
		// Browsers enforce the required inputs, so only hand-made posts get here. The form
		// stays in editing with what was sent.
		logger.Warn("Incomplete signup form", "error", err)
		return ctrl.render(ctx, http.StatusBadRequest, f)
	}

	status := http.StatusOK
	if f.Phase() == form.PhaseFailed {
		status = http.StatusBadRequest
	}

	logger.Info("Signup form submitted", "phase", f.Phase().String())
	return ctrl.render(ctx, status, f)
}

func (ctrl *pageController) render(ctx *router.RequestContext, status int, f *form.Form) *router.ViewResult {
	var buf bytes.Buffer
	if err := f.Render(&buf, ctrl.page); err != nil {
		router.GetLogger(ctx).Error("Failed to render signup page", "error", err)
		return nil
	}
	return router.HTMLResult(status, buf.Bytes())
}
