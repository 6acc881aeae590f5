package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"donor-finder/internal/domain"
)

type DonorRepository struct {
	mock.Mock
}

func (m *DonorRepository) Load(ctx context.Context) (*domain.DonorTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorTable), args.Error(1)
}

func (m *DonorRepository) Append(ctx context.Context, row domain.RegistrationRow) (int, error) {
	args := m.Called(ctx, row)
	return args.Int(0), args.Error(1)
}

func (m *DonorRepository) Path() string {
	return "testdata/Blood.xlsx"
}
