package notify

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donor-finder/internal/domain"
	"donor-finder/internal/metrics"
	"donor-finder/internal/repository"
	"donor-finder/internal/service/email"
)

// TableSource supplies the current donor snapshot.
type TableSource interface {
	EnsureLoaded(ctx context.Context) (*domain.DonorTable, error)
}

type Service interface {
	Notify(ctx context.Context, input domain.NotifyInput) (*domain.NotifyResult, error)
	History(ctx context.Context, limit int) ([]domain.Dispatch, error)
}

type service struct {
	donors       TableSource
	mailer       email.Mailer
	dispatchRepo repository.DispatchRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewService wires notification delivery. dispatchRepo may be nil.
func NewService(donors TableSource, mailer email.Mailer, dispatchRepo repository.DispatchRepository, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		donors:       donors,
		mailer:       mailer,
		dispatchRepo: dispatchRepo,
		metrics:      m,
		logger:       logger,
	}
}

func (s *service) Notify(ctx context.Context, input domain.NotifyInput) (*domain.NotifyResult, error) {
	table, err := s.donors.EnsureLoaded(ctx)
	if err != nil {
		s.metrics.ObserveNotification(0, err)
		return nil, err
	}

	if !table.HasEmail {
		s.metrics.ObserveNotification(0, domain.ErrEmailUnsupported)
		return nil, domain.ErrEmailUnsupported
	}
	if len(input.IDs) == 0 {
		err := domain.NewValidationError("ids", "please provide non-empty 'ids' array")
		s.metrics.ObserveNotification(0, err)
		return nil, err
	}

	recipients := table.Emails(input.IDs)
	if len(recipients) == 0 {
		s.metrics.ObserveNotification(0, domain.ErrNoRecipients)
		return nil, domain.ErrNoRecipients
	}
	if err := s.mailer.Validate(); err != nil {
		s.metrics.ObserveNotification(0, err)
		return nil, err
	}

	msg := domain.Message{
		From:    s.mailer.Sender(),
		To:      s.mailer.Sender(),
		Bcc:     recipients,
		Subject: orDefault(input.Subject, domain.DefaultNotifySubject),
		Body:    orDefault(input.Message, domain.DefaultNotifyMessage),
	}

	sendErr := s.mailer.Send(ctx, msg)
	s.recordDispatch(ctx, msg, sendErr)
	if sendErr != nil {
		err := &domain.DeliveryError{Cause: sendErr}
		s.metrics.ObserveNotification(len(recipients), err)
		s.logger.Error("donor notification failed", zap.Int("recipients", len(recipients)), zap.Error(sendErr))
		return nil, err
	}

	s.metrics.ObserveNotification(len(recipients), nil)
	s.logger.Info("donor notification sent", zap.Int("recipients", len(recipients)))
	return &domain.NotifyResult{Sent: len(recipients)}, nil
}

// History lists recent dispatches, newest first. Without a dispatch log it
// is always empty.
func (s *service) History(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	if s.dispatchRepo == nil {
		return []domain.Dispatch{}, nil
	}
	return s.dispatchRepo.ListRecent(ctx, limit)
}

func (s *service) recordDispatch(ctx context.Context, msg domain.Message, sendErr error) {
	if s.dispatchRepo == nil {
		return
	}

	dispatch := &domain.Dispatch{
		ID:             uuid.New(),
		Subject:        msg.Subject,
		RecipientCount: len(msg.Bcc),
		Status:         domain.DispatchSent,
	}
	if sendErr != nil {
		cause := sendErr.Error()
		dispatch.Status = domain.DispatchFailed
		dispatch.Error = &cause
	}

	if err := s.dispatchRepo.Create(ctx, dispatch); err != nil {
		s.logger.Warn("failed to record notification dispatch", zap.Error(err))
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
