package waitlist

import (
	"context"
	"errors"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
)

// Outcomes recorded on waitlist_signups_total.
const (
	OutcomeJoined    = "joined"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

type WaitlistService interface {
	// Join records a signup. Errors are *apperrors.AppError values whose Message is safe to
	// show the submitter.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error)
}

type ServiceConfig struct {
	// FoldEmailCase stores and matches emails in Unicode case-folded form.
	FoldEmailCase bool
	// Metrics receives waitlist_signups_total. Nil leaves the counter unregistered.
	Metrics prometheus.Registerer
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	validate   *validator.Validate
	tracer     trace.Tracer
	foldCase   bool
	signups    *prometheus.CounterVec
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, cfg *ServiceConfig) WaitlistService {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	validate := validator.New()
	validate.SetTagName("binding")

	return &waitlistService{
		logger:     logger,
		repository: repository,
		validate:   validate,
		tracer:     otel.Tracer("github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"),
		foldCase:   cfg.FoldEmailCase,
		signups:    registerSignupCounter(cfg.Metrics),
	}
}

func registerSignupCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist signup attempts by outcome.",
		},
		[]string{"outcome"},
	)
	if reg == nil {
		return counter
	}

	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return counter
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	ctx, span := s.tracer.Start(ctx, "waitlist.Join")
	defer span.End()

	if req == nil {
		return nil, s.finish(span, OutcomeInvalid, apperrors.NewValidationError(MessageFieldsRequired, nil))
	}

	if err := s.validate.Struct(req); err != nil {
		logger.Warn("Join request failed validation", "errors", apperrors.FormatValidationErrors(err, req))
		return nil, s.finish(span, OutcomeInvalid, apperrors.NewValidationError(MessageFieldsRequired, err))
	}

	email := s.normalizeEmail(req.Email)

	// The pre-check only gives a friendlier answer for the common case. The unique constraint
	// still decides, so a failed lookup falls through to the insert.
	existing, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		logger.Warn("Duplicate pre-check failed; relying on the unique constraint", "error", err)
	} else if existing != nil {
		logger.Info("Email already on the waitlist")
		return nil, s.finish(span, OutcomeDuplicate, apperrors.NewConflictError(MessageAlreadyJoined, nil))
	}

	if _, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(req, email)); err != nil {
		if apperrors.IsConflict(err) {
			logger.Info("Email already on the waitlist (unique constraint)")
			return nil, s.finish(span, OutcomeDuplicate, apperrors.NewConflictError(MessageAlreadyJoined, err))
		}

		if apperrors.IsUndefinedTableError(err) {
			logger.Error("Waitlist table does not exist; run `cli setup-table` or `cli migrate up`", "error", err)
		} else {
			logger.Error("Failed to create waitlist entry", "error", err)
		}
		return nil, s.finish(span, OutcomeFailed, apperrors.NewPersistenceError(MessageJoinFailed, err))
	}

	logger.Info("Joined waitlist")
	s.finish(span, OutcomeJoined, nil)

	return &JoinWaitlistResponse{
		Success: true,
		Message: MessageJoined,
	}, nil
}

func (s *waitlistService) normalizeEmail(email string) string {
	if !s.foldCase {
		return email
	}
	return cases.Fold().String(email)
}

func (s *waitlistService) finish(span trace.Span, outcome string, err error) error {
	s.signups.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("waitlist.outcome", outcome))

	if err != nil && outcome == OutcomeFailed {
		span.RecordError(err)
		span.SetStatus(codes.Error, MessageJoinFailed)
	}
	return err
}
