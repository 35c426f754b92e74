package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type clipGenerator struct {
	logger         outbound.LoggerPort
	videoJobs      outbound.VideoJobPort
	mediaStore     outbound.MediaStorePort
	prober         outbound.DurationProberPort
	workerPool     outbound.TaskDispatcher
	veoConfig      *config.VeoConfig
	pipelineConfig *config.PipelineConfig
}

func NewClipGenerator(logger outbound.LoggerPort, videoJobs outbound.VideoJobPort,
	mediaStore outbound.MediaStorePort, prober outbound.DurationProberPort,
	workerPool outbound.TaskDispatcher, veoConfig *config.VeoConfig,
	pipelineConfig *config.PipelineConfig) inbound.ClipGeneratorPort {
	return &clipGenerator{
		logger:         logger,
		videoJobs:      videoJobs,
		mediaStore:     mediaStore,
		prober:         prober,
		workerPool:     workerPool,
		veoConfig:      veoConfig,
		pipelineConfig: pipelineConfig,
	}
}

func (g *clipGenerator) Generate(ctx context.Context, scenes <-chan domain.SceneDescription,
	outputDir string) (<-chan domain.VideoClip, <-chan error) {
	out := make(chan domain.VideoClip)
	errCh := make(chan error, 5)

	newCtx, cancel := context.WithCancel(ctx)

	err := g.workerPool.Submit(func() {
		var wg sync.WaitGroup

		// In-flight workers must be drained before the channels close,
		// on every exit path, or a late error send hits a closed channel.
		defer cancel()
		defer close(out)
		defer close(errCh)
		defer wg.Wait()

		for sc := range scenes {
			select {
			case <-newCtx.Done():
				return
			default:
				scene := sc
				wg.Add(1)
				err := g.workerPool.Submit(func() {
					defer wg.Done()

					clip, err := g.generateClip(newCtx, scene, outputDir)
					if err != nil {
						select {
						case errCh <- err:
						case <-newCtx.Done():
						}
						return
					}

					select {
					case out <- *clip:
					case <-newCtx.Done():
					}
				})
				if err != nil {
					wg.Done()
					select {
					case errCh <- err:
					case <-newCtx.Done():
					}
					return
				}
			}
		}
	})
	if err != nil {
		errCh <- err
	}

	return out, errCh
}

// generateClip runs the submit/poll/fetch cycle for one scene, retrying
// transient failures with exponential backoff. The scene's requested
// duration is held constant across attempts.
func (g *clipGenerator) generateClip(ctx context.Context, scene domain.SceneDescription,
	outputDir string) (*domain.VideoClip, error) {
	var lastErr error

	for attempt := 1; attempt <= g.pipelineConfig.VideoMaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := g.pipelineConfig.VideoBackoffBase << (attempt - 2)
			g.logger.WarnWithFields("retrying clip generation", map[string]interface{}{
				"scene":   scene.SceneNumber,
				"attempt": attempt,
				"backoff": backoff.String(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		clip, err := g.runJob(ctx, scene, outputDir)
		if err == nil {
			return clip, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !domain.IsTransient(err) {
			return nil, &domain.SceneGenerationFailure{SceneNumber: scene.SceneNumber, Medium: "video", Err: err}
		}
		lastErr = err
	}

	return nil, &domain.SceneGenerationFailure{SceneNumber: scene.SceneNumber, Medium: "video", Err: lastErr}
}

func (g *clipGenerator) runJob(ctx context.Context, scene domain.SceneDescription,
	outputDir string) (*domain.VideoClip, error) {
	submitCtx, cancelSubmit := context.WithTimeout(ctx, g.veoConfig.SubmitTimeout)
	jobID, err := g.videoJobs.Submit(submitCtx, outbound.SubmitVideoJobRequest{
		Prompt:   buildVideoPrompt(scene),
		Duration: scene.Duration,
	})
	cancelSubmit()
	if err != nil {
		return nil, err
	}

	if err := g.awaitJob(ctx, scene.SceneNumber, jobID); err != nil {
		return nil, err
	}

	fetchCtx, cancelFetch := context.WithTimeout(ctx, g.veoConfig.FetchTimeout)
	data, err := g.videoJobs.Fetch(fetchCtx, jobID)
	cancelFetch()
	if err != nil {
		return nil, err
	}

	clipPath := filepath.Join(outputDir, fmt.Sprintf("scene_%d.mp4", scene.SceneNumber))
	if err := g.mediaStore.Write(ctx, clipPath, data); err != nil {
		return nil, err
	}

	duration, err := g.prober.Probe(ctx, clipPath)
	if err != nil {
		g.logger.WarnWithFields("could not probe clip duration, using requested", map[string]interface{}{
			"scene": scene.SceneNumber,
			"error": err.Error(),
		})
		duration = scene.Duration
	}

	g.logger.InfoWithFields("clip generated", map[string]interface{}{
		"scene":    scene.SceneNumber,
		"path":     clipPath,
		"duration": duration,
	})

	return &domain.VideoClip{
		SceneNumber:    scene.SceneNumber,
		FilePath:       clipPath,
		Duration:       duration,
		TranscriptText: scene.TranscriptText,
	}, nil
}

// awaitJob polls the job until it resolves. Each poll iteration carries
// its own timeout; the loop as a whole is bounded by MaxPollDuration and
// aborts as soon as the run context is cancelled.
func (g *clipGenerator) awaitJob(ctx context.Context, sceneNumber int, jobID string) error {
	deadline := time.Now().Add(g.veoConfig.MaxPollDuration)

	for {
		pollCtx, cancelPoll := context.WithTimeout(ctx, g.veoConfig.PollTimeout)
		status, err := g.videoJobs.Poll(pollCtx, jobID)
		cancelPoll()
		if err != nil {
			return err
		}

		switch status {
		case outbound.VideoJobSucceeded:
			return nil
		case outbound.VideoJobFailed:
			return fmt.Errorf("video job %s failed", jobID)
		}

		if time.Now().After(deadline) {
			return &domain.TransientServiceError{
				Err: fmt.Errorf("video job %s for scene %d still running after %s", jobID, sceneNumber, g.veoConfig.MaxPollDuration),
			}
		}

		select {
		case <-time.After(g.veoConfig.PollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func buildVideoPrompt(scene domain.SceneDescription) string {
	return fmt.Sprintf(`You are generating a short-form video clip to accompany an EXISTING audio track.

CRITICAL AUDIO CONSTRAINT:
- The audio for this video is PRE-RECORDED from the transcript below.
- Do NOT generate any audio, vocals, speech, narration, or sound effects.
- The video MUST be SILENT by itself.

TRANSCRIPT (audio reference only; do not reinterpret):
"""%s"""

HARD CONSTRAINTS:
- Maximum duration: %.0f seconds.
- No visible people speaking, singing, or facing the camera.
- No lip movement of any kind.
- No on-screen text, subtitles, captions, or lyrics.
- No podcast studios, microphones, or interview setups.

VISUAL PROMPT:
%s

Show the situation being described, as if the viewer is watching what the speaker talks about. One continuous, silent clip, designed for vertical short-form playback, visually engaging within the first 2 seconds.`,
		scene.TranscriptText, scene.Duration, scene.VisualPrompt)
}
