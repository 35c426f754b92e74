package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type NarrationGeneratorPort interface {
	Generate(ctx context.Context, scenes <-chan domain.SceneDescription, voiceID string, outputDir string) (<-chan domain.AudioClip, <-chan error)
}
