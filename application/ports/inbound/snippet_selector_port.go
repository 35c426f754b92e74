package inbound

import (
	"context"

	"podcast-shorts-pipeline/domain"
)

type SelectSnippetsParams struct {
	Transcript  domain.Transcript
	MaxSnippets int
}

type SnippetSelectorPort interface {
	Select(ctx context.Context, params SelectSnippetsParams) ([]domain.Snippet, error)
}
