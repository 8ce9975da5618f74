package page

import (
	"context"

	"github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/form"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
)

// ServiceSubmitter lets the form call the signup service directly instead of over HTTP.
type ServiceSubmitter struct {
	service waitlist.WaitlistService
}

func NewServiceSubmitter(service waitlist.WaitlistService) *ServiceSubmitter {
	return &ServiceSubmitter{service: service}
}

func (s *ServiceSubmitter) Join(ctx context.Context, name, email string) (string, error) {
	resp, err := s.service.Join(ctx, &waitlist.JoinWaitlistRequest{Name: name, Email: email})
	if err != nil {
		return "", &form.SubmitError{
			Message: apperrors.GetHumanReadableMessage(err),
			Err:     err,
		}
	}
	return resp.Message, nil
}
