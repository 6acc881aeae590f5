package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donor-finder/internal/domain"
	"donor-finder/internal/mocks"
	"donor-finder/internal/service/notify"
)

type staticTable struct {
	table *domain.DonorTable
	err   error
}

func (s staticTable) EnsureLoaded(ctx context.Context) (*domain.DonorTable, error) {
	return s.table, s.err
}

func strPtr(s string) *string {
	return &s
}

func donorTable() *domain.DonorTable {
	return &domain.DonorTable{
		HasEmail: true,
		Donors: []domain.Donor{
			{ID: 0, BloodGroup: "O+", Email: strPtr("asha@example.com")},
			{ID: 1, BloodGroup: "O+"},
			{ID: 2, BloodGroup: "B+", Email: strPtr("asha@example.com")},
			{ID: 3, BloodGroup: "B+", Email: strPtr("meena@example.com")},
		},
	}
}

func TestService_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Uses Bcc And Defaults", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		dispatchRepo := new(mocks.DispatchRepository)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, dispatchRepo, nil, zap.NewNop())

		mailer.On("Validate").Return(nil).Once()
		mailer.On("Sender").Return("bank@example.com")
		mailer.On("Send", ctx, domain.Message{
			From:    "bank@example.com",
			To:      "bank@example.com",
			Bcc:     []string{"asha@example.com", "meena@example.com"},
			Subject: domain.DefaultNotifySubject,
			Body:    domain.DefaultNotifyMessage,
		}).Return(nil).Once()
		dispatchRepo.On("Create", ctx, mock.MatchedBy(func(d *domain.Dispatch) bool {
			return d.Status == domain.DispatchSent && d.RecipientCount == 2 && d.Error == nil
		})).Return(nil).Once()

		result, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{0, 1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Sent)

		mailer.AssertExpectations(t)
		dispatchRepo.AssertExpectations(t)
	})

	t.Run("Missing Email Excluded", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, nil, nil, zap.NewNop())

		mailer.On("Validate").Return(nil).Once()
		mailer.On("Sender").Return("bank@example.com")
		mailer.On("Send", ctx, mock.MatchedBy(func(msg domain.Message) bool {
			return len(msg.Bcc) == 1 && msg.Subject == "Urgent" && msg.Body == "Come today"
		})).Return(nil).Once()

		result, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{0, 1}, Subject: "Urgent", Message: "Come today"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
	})

	t.Run("Email Unsupported", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		table := donorTable()
		table.HasEmail = false
		svc := notify.NewService(staticTable{table: table}, mailer, nil, nil, zap.NewNop())

		_, err := svc.Notify(ctx, domain.NotifyInput{})
		assert.ErrorIs(t, err, domain.ErrEmailUnsupported)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Empty IDs", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, nil, nil, zap.NewNop())

		_, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("No Valid Recipients", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, nil, nil, zap.NewNop())

		_, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{1, 42}})
		assert.ErrorIs(t, err, domain.ErrNoRecipients)
		mailer.AssertNotCalled(t, "Validate")
	})

	t.Run("Mail Not Configured", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, nil, nil, zap.NewNop())

		mailer.On("Validate").Return(domain.ErrMailNotConfigured).Once()

		_, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{0}})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Transport Failure", func(t *testing.T) {
		mailer := new(mocks.Mailer)
		dispatchRepo := new(mocks.DispatchRepository)
		svc := notify.NewService(staticTable{table: donorTable()}, mailer, dispatchRepo, nil, zap.NewNop())

		cause := errors.New("535 authentication failed")
		mailer.On("Validate").Return(nil).Once()
		mailer.On("Sender").Return("bank@example.com")
		mailer.On("Send", ctx, mock.Anything).Return(cause).Once()
		dispatchRepo.On("Create", ctx, mock.MatchedBy(func(d *domain.Dispatch) bool {
			return d.Status == domain.DispatchFailed && d.Error != nil && *d.Error == cause.Error()
		})).Return(errors.New("db down")).Once()

		_, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{3}})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDelivery)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to send email: 535 authentication failed", err.Error())
		mailer.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Load Failure", func(t *testing.T) {
		svc := notify.NewService(staticTable{err: domain.ErrStoreUnavailable}, new(mocks.Mailer), nil, nil, zap.NewNop())

		_, err := svc.Notify(ctx, domain.NotifyInput{IDs: []int{0}})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Without Dispatch Log", func(t *testing.T) {
		svc := notify.NewService(staticTable{table: donorTable()}, new(mocks.Mailer), nil, nil, zap.NewNop())

		history, err := svc.History(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("From Dispatch Log", func(t *testing.T) {
		dispatchRepo := new(mocks.DispatchRepository)
		svc := notify.NewService(staticTable{table: donorTable()}, new(mocks.Mailer), dispatchRepo, nil, zap.NewNop())

		dispatchRepo.On("ListRecent", ctx, 5).Return([]domain.Dispatch{{Subject: "Need A+"}}, nil).Once()

		history, err := svc.History(ctx, 5)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Need A+", history[0].Subject)
	})
}
