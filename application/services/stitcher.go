package services

import (
	"context"
	"math"
	"path/filepath"
	"sort"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type stitcher struct {
	logger         outbound.LoggerPort
	concatenator   outbound.VideoConcatenatorPort
	prober         outbound.DurationProberPort
	pipelineConfig *config.PipelineConfig
}

func NewStitcher(logger outbound.LoggerPort, concatenator outbound.VideoConcatenatorPort,
	prober outbound.DurationProberPort, pipelineConfig *config.PipelineConfig) inbound.StitcherPort {
	return &stitcher{
		logger:         logger,
		concatenator:   concatenator,
		prober:         prober,
		pipelineConfig: pipelineConfig,
	}
}

// Stitch concatenates the surviving clips in ascending scene order.
// Concatenation order is a correctness property: downstream narration is
// aligned to it. The join is stream-copied first, re-encoded only when the
// copy fails on mismatched codecs or resolutions.
func (s *stitcher) Stitch(ctx context.Context, clips []domain.VideoClip, outputDir string) (*domain.StitchedVideo, error) {
	if len(clips) == 0 {
		return nil, &domain.AssemblyError{Msg: "no clips to stitch"}
	}

	ordered := make([]domain.VideoClip, len(clips))
	copy(ordered, clips)
	sort.Sort(domain.VideoClipsAscBySceneNumber(ordered))

	inputPaths := make([]string, 0, len(ordered))
	expectedDuration := 0.0
	for _, clip := range ordered {
		inputPaths = append(inputPaths, clip.FilePath)
		expectedDuration += clip.Duration
	}

	outputPath := filepath.Join(outputDir, "stitched.mp4")

	if err := s.concatenator.Concatenate(ctx, inputPaths, outputPath, false); err != nil {
		s.logger.WarnWithFields("lossless concat failed, re-encoding", map[string]interface{}{
			"error": err.Error(),
		})
		if err := s.concatenator.Concatenate(ctx, inputPaths, outputPath, true); err != nil {
			return nil, &domain.AssemblyError{Msg: "concatenation failed even after re-encode", Err: err}
		}
	}

	duration, err := s.prober.Probe(ctx, outputPath)
	if err != nil {
		return nil, &domain.AssemblyError{Msg: "could not probe stitched video", Err: err}
	}

	// One frame at the target fps is the acceptable drift between the sum
	// of clip durations and the measured output.
	tolerance := 1.0 / s.pipelineConfig.TargetFPS
	if math.Abs(duration-expectedDuration) > tolerance {
		s.logger.WarnWithFields("stitched duration drifted from clip sum", map[string]interface{}{
			"measured": duration,
			"expected": expectedDuration,
		})
	}

	s.logger.InfoWithFields("clips stitched", map[string]interface{}{
		"clips":    len(ordered),
		"path":     outputPath,
		"duration": duration,
	})

	return &domain.StitchedVideo{FilePath: outputPath, Duration: duration}, nil
}
