package outbound

import "context"

// MuxerPort lays an audio track onto a silent video. The output is cut to
// targetDuration: shorter audio is padded with silence, longer audio is
// truncated, so the final duration always matches the video's.
type MuxerPort interface {
	Mux(ctx context.Context, videoPath, audioPath, outputPath string, targetDuration float64) error
}
