package outbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

// ManifestCachePort persists a per-stage snapshot of the run manifest so
// a caller can inspect completed stages and resume after a failure.
type ManifestCachePort interface {
	Save(ctx context.Context, stage domain.Stage, manifest *domain.Manifest) error
}
