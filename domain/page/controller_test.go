package page

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/form"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	err   error
	calls []waitlist.JoinWaitlistRequest
}

func (s *fakeService) Join(_ context.Context, req *waitlist.JoinWaitlistRequest) (*waitlist.JoinWaitlistResponse, error) {
	s.calls = append(s.calls, *req)
	if s.err != nil {
		return nil, s.err
	}
	return &waitlist.JoinWaitlistResponse{Success: true, Message: waitlist.MessageJoined}, nil
}

func newPageRouter(t *testing.T, service waitlist.WaitlistService, productName string) *router.RouterService {
	t.Helper()

	rs := router.CreateRouterService(log.NewLogger(io.Discard, slog.LevelError), &router.RouterConfig{DisableMetrics: true})
	rs.MountController(NewPageController(service, productName))
	return rs
}

func postForm(rs *router.RouterService, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestPage_Get(t *testing.T) {
	rs := newPageRouter(t, &fakeService{}, "")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "<title>Muscle AI - Join the Waitlist</title>")
	assert.Contains(t, w.Body.String(), `<form method="post" action="/">`)
}

func TestPage_ProductName(t *testing.T) {
	rs := newPageRouter(t, &fakeService{}, "Muscle AI Pro")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, w.Body.String(), "<title>Muscle AI Pro - Join the Waitlist</title>")
}

func TestPage_PostSuccess(t *testing.T) {
	service := &fakeService{}
	rs := newPageRouter(t, service, "")

	w := postForm(rs, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="joined"`)
	assert.Contains(t, w.Body.String(), "Successfully joined the waitlist!")
	assert.Equal(t, []waitlist.JoinWaitlistRequest{{Name: "Ada", Email: "ada@example.com"}}, service.calls)
}

func TestPage_PostDuplicateKeepsValues(t *testing.T) {
	service := &fakeService{err: apperrors.NewConflictError("This email is already on our waitlist!", nil)}
	rs := newPageRouter(t, service, "")

	w := postForm(rs, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "This email is already on our waitlist!")
}

func TestPage_PostIncompleteNeverCallsService(t *testing.T) {
	service := &fakeService{}
	rs := newPageRouter(t, service, "")

	w := postForm(rs, url.Values{"name": {"Ada"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.calls)
	assert.Contains(t, w.Body.String(), `value="Ada"`)
}

func TestServiceSubmitter_MapsErrors(t *testing.T) {
	submitter := NewServiceSubmitter(&fakeService{err: apperrors.NewPersistenceError("Failed to join waitlist. Please try again.", nil)})

	_, err := submitter.Join(context.Background(), "Ada", "ada@example.com")
	assert.Equal(t, "Failed to join waitlist. Please try again.", form.UserMessage(err))

	submitter = NewServiceSubmitter(&fakeService{})
	message, err := submitter.Join(context.Background(), "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, waitlist.MessageJoined, message)
}
