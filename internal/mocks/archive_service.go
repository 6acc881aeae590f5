package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ArchiveService struct {
	mock.Mock
}

func (m *ArchiveService) ArchiveWorkbook(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}
