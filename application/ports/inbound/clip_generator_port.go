package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

// ClipGeneratorPort fans out one video-generation task per scene. Clips
// arrive on the output channel in completion order, not scene order; scene
// failures and fatal errors arrive on the error channel.
type ClipGeneratorPort interface {
	Generate(ctx context.Context, scenes <-chan domain.SceneDescription, outputDir string) (<-chan domain.VideoClip, <-chan error)
}
