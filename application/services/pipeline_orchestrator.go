package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/channel_utils"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type pipelineOrchestrator struct {
	logger             outbound.LoggerPort
	workerPool         outbound.TaskDispatcher
	snippetSelector    inbound.SnippetSelectorPort
	sceneComposer      inbound.SceneComposerPort
	clipGenerator      inbound.ClipGeneratorPort
	narrationGenerator inbound.NarrationGeneratorPort
	stitcher           inbound.StitcherPort
	synchronizer       inbound.SynchronizerPort
	manifestCache      outbound.ManifestCachePort
	publisher          outbound.ArtifactPublisherPort
	stageTracker       outbound.StageTrackerPort
	pipelineConfig     *config.PipelineConfig
}

func NewPipelineOrchestrator(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	snippetSelector inbound.SnippetSelectorPort,
	sceneComposer inbound.SceneComposerPort,
	clipGenerator inbound.ClipGeneratorPort,
	narrationGenerator inbound.NarrationGeneratorPort,
	stitcher inbound.StitcherPort,
	synchronizer inbound.SynchronizerPort,
	manifestCache outbound.ManifestCachePort,
	publisher outbound.ArtifactPublisherPort,
	stageTracker outbound.StageTrackerPort,
	pipelineConfig *config.PipelineConfig) inbound.PipelineOrchestratorPort {
	return &pipelineOrchestrator{
		logger:             logger,
		workerPool:         workerPool,
		snippetSelector:    snippetSelector,
		sceneComposer:      sceneComposer,
		clipGenerator:      clipGenerator,
		narrationGenerator: narrationGenerator,
		stitcher:           stitcher,
		synchronizer:       synchronizer,
		manifestCache:      manifestCache,
		publisher:          publisher,
		stageTracker:       stageTracker,
		pipelineConfig:     pipelineConfig,
	}
}

// Run drives the stages Idle -> ExtractingSnippets -> ComposingScenes ->
// GeneratingMedia -> Stitching -> Syncing -> Publishing -> Done. The
// GeneratingMedia stage fans out clip and narration generation against
// their separate worker pools and reassembles both tracks by scene number.
func (o *pipelineOrchestrator) Run(ctx context.Context, params inbound.RunPipelineParams) (*domain.Manifest, error) {
	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	manifest := &domain.Manifest{RunID: params.RunID}
	runDir := filepath.Join(o.pipelineConfig.OutputDir, params.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, o.fail(params.RunID, domain.StageExtractingSnippets, manifest, err)
	}

	o.setStage(params.RunID, domain.StageExtractingSnippets)
	snippets, err := o.snippetSelector.Select(newCtx, inbound.SelectSnippetsParams{
		Transcript:  params.Transcript,
		MaxSnippets: params.MaxSnippets,
	})
	if err != nil {
		return nil, o.fail(params.RunID, domain.StageExtractingSnippets, manifest, err)
	}
	manifest.Snippets = snippets
	o.saveSnapshot(newCtx, domain.StageExtractingSnippets, manifest)

	o.setStage(params.RunID, domain.StageComposingScenes)
	scenes, err := o.sceneComposer.Compose(newCtx, snippets)
	if err != nil {
		return nil, o.fail(params.RunID, domain.StageComposingScenes, manifest, err)
	}
	manifest.Scenes = scenes
	o.saveSnapshot(newCtx, domain.StageComposingScenes, manifest)

	o.setStage(params.RunID, domain.StageGeneratingMedia)
	videoClips, audioClips, err := o.generateMedia(newCtx, cancel, scenes, params.VoiceID, runDir)
	if err != nil {
		manifest.VideoClips = videoClips
		manifest.AudioClips = audioClips
		return nil, o.fail(params.RunID, domain.StageGeneratingMedia, manifest, err)
	}
	manifest.VideoClips = videoClips
	manifest.AudioClips = audioClips
	o.saveSnapshot(newCtx, domain.StageGeneratingMedia, manifest)

	o.setStage(params.RunID, domain.StageStitching)
	stitched, err := o.stitcher.Stitch(newCtx, manifest.VideoClips, runDir)
	if err != nil {
		return nil, o.fail(params.RunID, domain.StageStitching, manifest, err)
	}
	manifest.StitchedVideo = stitched
	o.saveSnapshot(newCtx, domain.StageStitching, manifest)

	o.setStage(params.RunID, domain.StageSyncing)
	final, err := o.synchronizer.Sync(newCtx, *stitched, manifest.AudioClips, runDir)
	if err != nil {
		return nil, o.fail(params.RunID, domain.StageSyncing, manifest, err)
	}
	manifest.FinalVideo = final
	o.saveSnapshot(newCtx, domain.StageSyncing, manifest)

	if o.publisher != nil {
		o.setStage(params.RunID, domain.StagePublishing)
		res, err := o.publisher.Publish(newCtx, outbound.PublishArtifactRequest{
			RunID:    params.RunID,
			FilePath: final.FilePath,
		})
		if err != nil {
			return nil, o.fail(params.RunID, domain.StagePublishing, manifest, err)
		}
		manifest.ArtifactKey = res.ArtifactKey
	}

	o.setStage(params.RunID, domain.StageDone)
	o.logger.InfoWithFields("pipeline complete", map[string]interface{}{
		"run_id":   params.RunID,
		"scenes":   len(manifest.Scenes),
		"duration": final.Duration,
	})
	return manifest, nil
}

// generateMedia runs both generators concurrently, collects their results
// in completion order, and reassembles them by scene number. A fatal
// (non-scene) error cancels the run; scene failures are resolved via the
// configured partial-failure policy afterwards.
func (o *pipelineOrchestrator) generateMedia(ctx context.Context, cancel context.CancelFunc,
	scenes []domain.SceneDescription, voiceID string, runDir string) ([]domain.VideoClip, []domain.AudioClip, error) {

	videoCh, videoErrCh := o.clipGenerator.Generate(ctx, feedScenes(scenes), runDir)
	audioCh, audioErrCh := o.narrationGenerator.Generate(ctx, feedScenes(scenes), voiceID, runDir)

	mergedErrCh, err := channel_utils.MergeChannels(o.workerPool, videoErrCh, audioErrCh)
	if err != nil {
		return nil, nil, err
	}

	videoBySc := make(map[int]domain.VideoClip, len(scenes))
	audioBySc := make(map[int]domain.AudioClip, len(scenes))
	var failures []*domain.SceneGenerationFailure
	var fatal error

	var group errgroup.Group
	group.Go(func() error {
		for clip := range videoCh {
			videoBySc[clip.SceneNumber] = clip
		}
		return nil
	})
	group.Go(func() error {
		for clip := range audioCh {
			audioBySc[clip.SceneNumber] = clip
		}
		return nil
	})
	group.Go(func() error {
		for err := range mergedErrCh {
			var sceneFailure *domain.SceneGenerationFailure
			if errors.As(err, &sceneFailure) {
				o.logger.WarnWithFields("scene generation failed terminally", map[string]interface{}{
					"scene":  sceneFailure.SceneNumber,
					"medium": sceneFailure.Medium,
				})
				failures = append(failures, sceneFailure)
				continue
			}
			if fatal == nil {
				fatal = err
				cancel()
			}
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	if fatal != nil {
		return nil, nil, fatal
	}

	return o.applyFailurePolicy(scenes, videoBySc, audioBySc, failures)
}

// applyFailurePolicy enforces the configured drop-or-abort rule and
// returns both tracks ordered by scene number, with failed scenes removed
// from BOTH so narration stays paired with its clip.
func (o *pipelineOrchestrator) applyFailurePolicy(scenes []domain.SceneDescription,
	videoBySc map[int]domain.VideoClip, audioBySc map[int]domain.AudioClip,
	failures []*domain.SceneGenerationFailure) ([]domain.VideoClip, []domain.AudioClip, error) {

	videoClips := orderedVideoClips(videoBySc)
	audioClips := orderedAudioClips(audioBySc)

	if len(failures) == 0 {
		return videoClips, audioClips, nil
	}
	if !o.pipelineConfig.DropFailedScenes {
		return videoClips, audioClips, domain.FailedScenes(failures)
	}

	failed := make(map[int]bool, len(failures))
	for _, f := range failures {
		failed[f.SceneNumber] = true
	}

	survivingVideo := make([]domain.VideoClip, 0, len(videoClips))
	survivingAudio := make([]domain.AudioClip, 0, len(audioClips))
	for _, scene := range scenes {
		if failed[scene.SceneNumber] {
			continue
		}
		clip, hasVideo := videoBySc[scene.SceneNumber]
		audio, hasAudio := audioBySc[scene.SceneNumber]
		if !hasVideo || !hasAudio {
			continue
		}
		survivingVideo = append(survivingVideo, clip)
		survivingAudio = append(survivingAudio, audio)
	}

	if len(survivingVideo) == 0 {
		return videoClips, audioClips, domain.FailedScenes(failures)
	}

	o.logger.WarnWithFields("dropping failed scenes and continuing", map[string]interface{}{
		"failed":    len(failed),
		"surviving": len(survivingVideo),
	})
	return survivingVideo, survivingAudio, nil
}

func (o *pipelineOrchestrator) fail(runID string, stage domain.Stage, manifest *domain.Manifest, err error) error {
	o.setStage(runID, domain.StageFailed)
	o.logger.ErrorWithFields(err, "pipeline stage failed", map[string]interface{}{
		"run_id": runID,
		"stage":  string(stage),
	})
	return &domain.PipelineError{Stage: stage, Manifest: manifest, Err: err}
}

func (o *pipelineOrchestrator) setStage(runID string, stage domain.Stage) {
	if o.stageTracker != nil {
		o.stageTracker.Set(runID, stage)
	}
}

// saveSnapshot persists the stage manifest best-effort; a cache outage
// never fails the run.
func (o *pipelineOrchestrator) saveSnapshot(ctx context.Context, stage domain.Stage, manifest *domain.Manifest) {
	if o.manifestCache == nil {
		return
	}
	if err := o.manifestCache.Save(ctx, stage, manifest); err != nil {
		o.logger.WarnWithFields("failed to save manifest snapshot", map[string]interface{}{
			"stage": string(stage),
			"error": err.Error(),
		})
	}
}

func feedScenes(scenes []domain.SceneDescription) <-chan domain.SceneDescription {
	ch := make(chan domain.SceneDescription, len(scenes))
	for _, scene := range scenes {
		ch <- scene
	}
	close(ch)
	return ch
}

func orderedVideoClips(bySc map[int]domain.VideoClip) []domain.VideoClip {
	clips := make([]domain.VideoClip, 0, len(bySc))
	for _, clip := range bySc {
		clips = append(clips, clip)
	}
	sort.Sort(domain.VideoClipsAscBySceneNumber(clips))
	return clips
}

func orderedAudioClips(bySc map[int]domain.AudioClip) []domain.AudioClip {
	clips := make([]domain.AudioClip, 0, len(bySc))
	for _, clip := range bySc {
		clips = append(clips, clip)
	}
	sort.Sort(domain.AudioClipsAscBySceneNumber(clips))
	return clips
}
