package outbound

import "context"

// TextGeneratorPort is the text-generation collaborator. The prompt
// constrains the response to JSON; the raw response text is returned for
// the caller to parse.
type TextGeneratorPort interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
