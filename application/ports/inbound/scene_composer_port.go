package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type SceneComposerPort interface {
	Compose(ctx context.Context, snippets []domain.Snippet) ([]domain.SceneDescription, error)
}
