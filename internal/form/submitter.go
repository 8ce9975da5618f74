package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Submitter sends a signup somewhere and returns the confirmation message.
type Submitter interface {
	Join(ctx context.Context, name, email string) (string, error)
}

// SubmitError carries a message fit to show the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// UserMessage picks what the form shows for err. Only SubmitError text is shown verbatim.
func UserMessage(err error) string {
	var submitErr *SubmitError
	if errors.As(err, &submitErr) && submitErr.Message != "" {
		return submitErr.Message
	}
	return FallbackFailure
}

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	joinPath           = "/join-waitlist"
	maxResponseBytes   = 64 << 10
	defaultHTTPFailure = "Failed to join waitlist"
)

// HTTPSubmitter posts to a running service's /join-waitlist endpoint.
type HTTPSubmitter struct {
	baseURL string
	client  HTTPClient
}

func NewHTTPSubmitter(baseURL string, client HTTPClient) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type joinPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type joinResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s *HTTPSubmitter) Join(ctx context.Context, name, email string) (string, error) {
	body, err := json.Marshal(joinPayload{Name: name, Email: email})
	if err != nil {
		return "", fmt.Errorf("encode join request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+joinPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build join request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send join request: %w", err)
	}
	defer resp.Body.Close()

	var result joinResult
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result)

	if resp.StatusCode/100 != 2 {
		message := result.Error
		if decodeErr != nil || message == "" {
			message = defaultHTTPFailure
		}
		return "", &SubmitError{
			Message: message,
			Err:     fmt.Errorf("server returned %d", resp.StatusCode),
		}
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode join response: %w", decodeErr)
	}

	return result.Message, nil
}
