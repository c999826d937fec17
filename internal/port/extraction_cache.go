package port

import (
	"context"

	"ledgerlens/internal/domain"
)

// ExtractionCache stores extraction snapshots by content key.
// Get reports found=false on a miss without an error.
type ExtractionCache interface {
	Get(ctx context.Context, key string) (data domain.CategoryData, found bool, err error)
	Set(ctx context.Context, key string, data domain.CategoryData) error
}
