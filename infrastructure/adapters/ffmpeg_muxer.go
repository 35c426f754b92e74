package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"podcast-shorts-pipeline/application/ports/outbound"
)

type ffmpegMuxer struct {
	logger outbound.LoggerPort
}

func NewFFmpegMuxer(logger outbound.LoggerPort) outbound.MuxerPort {
	return &ffmpegMuxer{
		logger: logger,
	}
}

// Mux lays the audio track onto the video with the video stream copied
// untouched. The apad filter pads short audio with silence and -t cuts
// the output at targetDuration, so the result always runs exactly as long
// as the video regardless of narration drift.
func (f *ffmpegMuxer) Mux(ctx context.Context, videoPath, audioPath, outputPath string,
	targetDuration float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		"-af", "apad",
		"-t", strconv.FormatFloat(targetDuration, 'f', 3, 64),
		"-map", "0:v:0", "-map", "1:a:0",
		outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.logger.ErrorWithFields(err, "Failed to mux audio onto video", map[string]interface{}{
			"video":  videoPath,
			"audio":  audioPath,
			"output": string(out),
		})
		return fmt.Errorf("ffmpeg mux failed: %w", err)
	}

	return nil
}
