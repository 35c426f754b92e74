package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type StitcherPort interface {
	Stitch(ctx context.Context, clips []domain.VideoClip, outputDir string) (*domain.StitchedVideo, error)
}
