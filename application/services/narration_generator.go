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

type narrationGenerator struct {
	logger         outbound.LoggerPort
	synthesizer    outbound.SpeechSynthesizerPort
	mediaStore     outbound.MediaStorePort
	prober         outbound.DurationProberPort
	workerPool     outbound.TaskDispatcher
	pipelineConfig *config.PipelineConfig
}

func NewNarrationGenerator(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	mediaStore outbound.MediaStorePort, prober outbound.DurationProberPort,
	workerPool outbound.TaskDispatcher, pipelineConfig *config.PipelineConfig) inbound.NarrationGeneratorPort {
	return &narrationGenerator{
		logger:         logger,
		synthesizer:    synthesizer,
		mediaStore:     mediaStore,
		prober:         prober,
		workerPool:     workerPool,
		pipelineConfig: pipelineConfig,
	}
}

func (n *narrationGenerator) Generate(ctx context.Context, scenes <-chan domain.SceneDescription,
	voiceID string, outputDir string) (<-chan domain.AudioClip, <-chan error) {
	out := make(chan domain.AudioClip)
	errCh := make(chan error, 5)

	newCtx, cancel := context.WithCancel(ctx)

	err := n.workerPool.Submit(func() {
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
				err := n.workerPool.Submit(func() {
					defer wg.Done()

					clip, err := n.generateNarration(newCtx, scene, voiceID, outputDir)
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

// generateNarration synthesizes one scene's narration. The speech service
// answers in seconds, so the retry budget is smaller and the backoff
// shorter than the video side's.
func (n *narrationGenerator) generateNarration(ctx context.Context, scene domain.SceneDescription,
	voiceID string, outputDir string) (*domain.AudioClip, error) {
	var lastErr error

	for attempt := 1; attempt <= n.pipelineConfig.AudioMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(n.pipelineConfig.AudioBackoffBase):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		clip, err := n.synthesizeScene(ctx, scene, voiceID, outputDir)
		if err == nil {
			return clip, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !domain.IsTransient(err) {
			return nil, &domain.SceneGenerationFailure{SceneNumber: scene.SceneNumber, Medium: "audio", Err: err}
		}
		lastErr = err
	}

	return nil, &domain.SceneGenerationFailure{SceneNumber: scene.SceneNumber, Medium: "audio", Err: lastErr}
}

func (n *narrationGenerator) synthesizeScene(ctx context.Context, scene domain.SceneDescription,
	voiceID string, outputDir string) (*domain.AudioClip, error) {
	data, err := n.synthesizer.Synthesize(ctx, outbound.SynthesizeRequest{
		Text:    scene.TranscriptText,
		VoiceID: voiceID,
	})
	if err != nil {
		return nil, err
	}

	clipPath := filepath.Join(outputDir, fmt.Sprintf("narration_scene_%d.mp3", scene.SceneNumber))
	if err := n.mediaStore.Write(ctx, clipPath, data); err != nil {
		return nil, err
	}

	duration, err := n.prober.Probe(ctx, clipPath)
	if err != nil {
		n.logger.WarnWithFields("could not probe narration duration, using scene duration", map[string]interface{}{
			"scene": scene.SceneNumber,
			"error": err.Error(),
		})
		duration = scene.Duration
	}

	n.logger.InfoWithFields("narration generated", map[string]interface{}{
		"scene":    scene.SceneNumber,
		"path":     clipPath,
		"duration": duration,
	})

	return &domain.AudioClip{
		SceneNumber:    scene.SceneNumber,
		FilePath:       clipPath,
		Duration:       duration,
		VoiceID:        voiceID,
		TranscriptText: scene.TranscriptText,
	}, nil
}
