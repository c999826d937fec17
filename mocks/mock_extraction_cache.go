package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ledgerlens/internal/domain"
)

// MockExtractionCache is a mock implementation of port.ExtractionCache.
type MockExtractionCache struct {
	mock.Mock
}

func (m *MockExtractionCache) Get(ctx context.Context, key string) (domain.CategoryData, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.CategoryData), args.Bool(1), args.Error(2)
}

func (m *MockExtractionCache) Set(ctx context.Context, key string, data domain.CategoryData) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}
