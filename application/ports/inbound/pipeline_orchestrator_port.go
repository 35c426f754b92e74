package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type RunPipelineParams struct {
	RunID       string
	Transcript  domain.Transcript
	MaxSnippets int
	VoiceID     string
}

// PipelineOrchestratorPort runs all stages end to end. On failure the
// returned error is a *domain.PipelineError carrying the failing stage and
// the partial manifest.
type PipelineOrchestratorPort interface {
	Run(ctx context.Context, params RunPipelineParams) (*domain.Manifest, error)
}
