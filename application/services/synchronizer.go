package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/domain"
)

type synchronizer struct {
	logger       outbound.LoggerPort
	concatenator outbound.AudioConcatenatorPort
	muxer        outbound.MuxerPort
	prober       outbound.DurationProberPort
}

func NewSynchronizer(logger outbound.LoggerPort, concatenator outbound.AudioConcatenatorPort,
	muxer outbound.MuxerPort, prober outbound.DurationProberPort) inbound.SynchronizerPort {
	return &synchronizer{
		logger:       logger,
		concatenator: concatenator,
		muxer:        muxer,
		prober:       prober,
	}
}

// Sync concatenates narration clips in scene order and muxes the track
// onto the stitched video. The video's duration wins: shorter narration
// is padded with trailing silence and longer narration is truncated.
func (s *synchronizer) Sync(ctx context.Context, stitched domain.StitchedVideo,
	audioClips []domain.AudioClip, outputDir string) (*domain.FinalVideo, error) {
	if len(audioClips) == 0 {
		return nil, &domain.SyncError{Msg: "no audio clips to merge"}
	}
	if _, err := os.Stat(stitched.FilePath); err != nil {
		return nil, &domain.SyncError{Msg: "stitched video is unreadable", Err: err}
	}

	ordered := make([]domain.AudioClip, len(audioClips))
	copy(ordered, audioClips)
	sort.Sort(domain.AudioClipsAscBySceneNumber(ordered))

	audioPaths := make([]string, 0, len(ordered))
	narrationDuration := 0.0
	for _, clip := range ordered {
		audioPaths = append(audioPaths, clip.FilePath)
		narrationDuration += clip.Duration
	}

	trackPath := filepath.Join(outputDir, "narration.mp3")
	if err := s.concatenator.Concatenate(ctx, audioPaths, trackPath); err != nil {
		return nil, &domain.SyncError{Msg: "narration track concatenation failed", Err: err}
	}

	if narrationDuration != stitched.Duration {
		s.logger.DebugWithFields("reconciling narration/video duration mismatch", map[string]interface{}{
			"narration": narrationDuration,
			"video":     stitched.Duration,
		})
	}

	outputPath := filepath.Join(outputDir, "final.mp4")
	if err := s.muxer.Mux(ctx, stitched.FilePath, trackPath, outputPath, stitched.Duration); err != nil {
		return nil, &domain.SyncError{Msg: "muxing narration onto video failed", Err: err}
	}

	duration, err := s.prober.Probe(ctx, outputPath)
	if err != nil {
		return nil, &domain.SyncError{Msg: "could not probe final video", Err: err}
	}

	s.logger.InfoWithFields("narration synchronized", map[string]interface{}{
		"path":     outputPath,
		"duration": duration,
	})

	return &domain.FinalVideo{FilePath: outputPath, Duration: duration}, nil
}
