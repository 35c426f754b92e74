package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type SynchronizerPort interface {
	Sync(ctx context.Context, stitched domain.StitchedVideo, audioClips []domain.AudioClip, outputDir string) (*domain.FinalVideo, error)
}
