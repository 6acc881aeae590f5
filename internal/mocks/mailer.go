package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"donor-finder/internal/domain"
)

type Mailer struct {
	mock.Mock
}

func (m *Mailer) Sender() string {
	args := m.Called()
	return args.String(0)
}

func (m *Mailer) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
