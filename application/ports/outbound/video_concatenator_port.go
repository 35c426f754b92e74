package outbound

import "context"

// VideoConcatenatorPort joins ordered video files into one. When reencode
// is false the join is stream-copied (lossless); reencode forces a full
// re-encode for clips with mismatched codecs or resolutions.
type VideoConcatenatorPort interface {
	Concatenate(ctx context.Context, inputPaths []string, outputPath string, reencode bool) error
}
