package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"donor-finder/internal/domain"
)

type DispatchRepository struct {
	mock.Mock
}

func (m *DispatchRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *DispatchRepository) Create(ctx context.Context, dispatch *domain.Dispatch) error {
	args := m.Called(ctx, dispatch)
	return args.Error(0)
}

func (m *DispatchRepository) ListRecent(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Dispatch), args.Error(1)
}
