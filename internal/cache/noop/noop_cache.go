package noop

import (
	"context"

	"ledgerlens/internal/domain"
	"ledgerlens/internal/port"
)

type noopCache struct{}

// NewCache returns an ExtractionCache that never stores anything.
func NewCache() port.ExtractionCache {
	return &noopCache{}
}

func (n *noopCache) Get(_ context.Context, _ string) (domain.CategoryData, bool, error) {
	return domain.CategoryData{}, false, nil
}

func (n *noopCache) Set(_ context.Context, _ string, _ domain.CategoryData) error {
	return nil
}
