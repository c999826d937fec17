package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/extraction"
)

// MockExtractionService is a mock implementation of extraction.Service.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, input extraction.Input) (domain.CategoryData, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.CategoryData), args.Error(1)
}
