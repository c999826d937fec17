package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ledgerlens/internal/domain"
)

// MockRepairService is a mock implementation of repair.Service.
type MockRepairService struct {
	mock.Mock
}

func (m *MockRepairService) Repair(ctx context.Context, category domain.Category, record domain.Record, issues []domain.Issue) domain.Record {
	args := m.Called(ctx, category, record, issues)
	return args.Get(0).(domain.Record)
}
