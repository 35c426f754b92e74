package outbound

import "context"

type AudioConcatenatorPort interface {
	Concatenate(ctx context.Context, inputPaths []string, outputPath string) error
}
