package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJoinServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/join-waitlist", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com"}, payload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSubmitter_Success(t *testing.T) {
	srv := newJoinServer(t, http.StatusOK, `{"success":true,"message":"Successfully joined the waitlist!"}`)

	message, err := NewHTTPSubmitter(srv.URL+"/", srv.Client()).Join(context.Background(), "Ada", "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, "Successfully joined the waitlist!", message)
}

func TestHTTPSubmitter_ErrorBodyIsShown(t *testing.T) {
	srv := newJoinServer(t, http.StatusBadRequest, `{"error":"This email is already on our waitlist!"}`)

	_, err := NewHTTPSubmitter(srv.URL, srv.Client()).Join(context.Background(), "Ada", "ada@example.com")

	require.Error(t, err)
	assert.Equal(t, "This email is already on our waitlist!", UserMessage(err))
}

func TestHTTPSubmitter_ErrorWithoutBody(t *testing.T) {
	srv := newJoinServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	_, err := NewHTTPSubmitter(srv.URL, srv.Client()).Join(context.Background(), "Ada", "ada@example.com")

	assert.Equal(t, "Failed to join waitlist", UserMessage(err))
}

type failingClient struct{}

func (failingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
}

func TestHTTPSubmitter_NetworkErrorUsesFallback(t *testing.T) {
	_, err := NewHTTPSubmitter("http://127.0.0.1:1", failingClient{}).Join(context.Background(), "Ada", "ada@example.com")

	require.Error(t, err)
	assert.Equal(t, FallbackFailure, UserMessage(err))
}

func TestHTTPSubmitter_DrivesForm(t *testing.T) {
	srv := newJoinServer(t, http.StatusInternalServerError, `{"error":"Failed to join waitlist. Please try again."}`)

	f := filledForm(t)
	require.NoError(t, f.Submit(context.Background(), NewHTTPSubmitter(srv.URL, srv.Client())))

	assert.Equal(t, PhaseFailed, f.Phase())
	assert.Equal(t, "Failed to join waitlist. Please try again.", f.Failure())
}
