package services

import (
	"context"
	"encoding/json"
	"testing"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
	"podcast-shorts-pipeline/infrastructure/adapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orchestratorHarness struct {
	orchestrator  inbound.PipelineOrchestratorPort
	jobs          *fakeVideoJobs
	synth         *fakeSynthesizer
	videoConcat   *fakeVideoConcatenator
	audioConcat   *fakeAudioConcatenator
	muxer         *fakeMuxer
	manifestCache *fakeManifestCache
	publisher     *fakePublisher
	stageTracker  outbound.StageTrackerPort
}

func newOrchestratorHarness(t *testing.T, pipelineConfig *config.PipelineConfig, withPublisher bool) *orchestratorHarness {
	t.Helper()

	snippetsPayload, err := json.Marshal(snippetResponse{Snippets: []domain.Snippet{
		{Text: "scene one text", StartTime: floatPtr(0), EndTime: floatPtr(8)},
		{Text: "scene two text", StartTime: floatPtr(30), EndTime: floatPtr(36)},
		{Text: "scene three text", StartTime: floatPtr(60), EndTime: floatPtr(68)},
	}})
	require.NoError(t, err)

	scenesPayload, err := json.Marshal(sceneResponse{Scenes: []domain.SceneDescription{
		{TranscriptText: "scene one text", VisualPrompt: "a storm", Duration: 8},
		{TranscriptText: "scene two text", VisualPrompt: "a harbor", Duration: 6},
		{TranscriptText: "scene three text", VisualPrompt: "a forest", Duration: 8},
	}})
	require.NoError(t, err)

	textGenerator := &promptRouter{snippetsJSON: string(snippetsPayload), scenesJSON: string(scenesPayload)}

	logger := adapters.NewZerologWrapper()
	pool := testPool(t)
	store := newMemMediaStore()
	prober := &fakeProber{defaultDuration: 8}

	h := &orchestratorHarness{
		jobs:          &fakeVideoJobs{pollsUntilDone: 1},
		synth:         &fakeSynthesizer{},
		videoConcat:   &fakeVideoConcatenator{},
		audioConcat:   &fakeAudioConcatenator{},
		muxer:         &fakeMuxer{},
		manifestCache: &fakeManifestCache{},
		stageTracker:  adapters.NewMemoryStageTracker(),
	}

	var publisher outbound.ArtifactPublisherPort
	if withPublisher {
		h.publisher = &fakePublisher{}
		publisher = h.publisher
	}

	snippetSelector := NewSnippetSelector(logger, textGenerator, pipelineConfig)
	sceneComposer := NewSceneComposer(logger, textGenerator, pipelineConfig)
	clipGenerator := NewClipGenerator(logger, h.jobs, store, prober, pool, testVeoConfig(), pipelineConfig)
	narrationGenerator := NewNarrationGenerator(logger, h.synth, store, prober, pool, pipelineConfig)
	stitcher := NewStitcher(logger, h.videoConcat, prober, pipelineConfig)
	synchronizer := NewSynchronizer(logger, h.audioConcat, h.muxer, prober)

	h.orchestrator = NewPipelineOrchestrator(logger, pool, snippetSelector, sceneComposer,
		clipGenerator, narrationGenerator, stitcher, synchronizer, h.manifestCache, publisher,
		h.stageTracker, pipelineConfig)
	return h
}

func runParams() inbound.RunPipelineParams {
	return inbound.RunPipelineParams{
		RunID:      "run-1",
		Transcript: domain.Transcript{Text: "a long conversation about storms, harbors and forests"},
		VoiceID:    "voice-a",
	}
}

func TestPipelineOrchestrator_HappyPath(t *testing.T) {
	h := newOrchestratorHarness(t, testPipelineConfig(t.TempDir()), false)

	manifest, err := h.orchestrator.Run(context.Background(), runParams())
	require.NoError(t, err)

	assert.Equal(t, "run-1", manifest.RunID)
	assert.Len(t, manifest.Snippets, 3)
	require.Len(t, manifest.Scenes, 3)
	require.Len(t, manifest.VideoClips, 3)
	require.Len(t, manifest.AudioClips, 3)

	// Both tracks come back ordered by scene number regardless of
	// completion order.
	for i := 0; i < 3; i++ {
		assert.Equal(t, i+1, manifest.VideoClips[i].SceneNumber)
		assert.Equal(t, i+1, manifest.AudioClips[i].SceneNumber)
		assert.Equal(t, "voice-a", manifest.AudioClips[i].VoiceID)
	}

	require.NotNil(t, manifest.StitchedVideo)
	require.NotNil(t, manifest.FinalVideo)
	assert.Empty(t, manifest.ArtifactKey)

	stage, ok := h.stageTracker.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, domain.StageDone, stage)

	// One snapshot per completed stage.
	stages := make([]domain.Stage, 0, len(h.manifestCache.snapshots))
	for _, snap := range h.manifestCache.snapshots {
		stages = append(stages, snap.stage)
	}
	assert.Equal(t, []domain.Stage{
		domain.StageExtractingSnippets,
		domain.StageComposingScenes,
		domain.StageGeneratingMedia,
		domain.StageStitching,
		domain.StageSyncing,
	}, stages)
}

func TestPipelineOrchestrator_PublishesFinalVideo(t *testing.T) {
	h := newOrchestratorHarness(t, testPipelineConfig(t.TempDir()), true)

	manifest, err := h.orchestrator.Run(context.Background(), runParams())
	require.NoError(t, err)

	assert.NotEmpty(t, manifest.ArtifactKey)
	require.Len(t, h.publisher.requests, 1)
	assert.Equal(t, "run-1", h.publisher.requests[0].RunID)
	assert.Equal(t, manifest.FinalVideo.FilePath, h.publisher.requests[0].FilePath)
}

func TestPipelineOrchestrator_SceneFailureAbortsByDefault(t *testing.T) {
	h := newOrchestratorHarness(t, testPipelineConfig(t.TempDir()), false)
	h.jobs.failSubstring = "scene two text"

	_, err := h.orchestrator.Run(context.Background(), runParams())

	var pipelineErr *domain.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, domain.StageGeneratingMedia, pipelineErr.Stage)

	// The partial manifest keeps the completed stages' artifacts.
	require.NotNil(t, pipelineErr.Manifest)
	assert.Len(t, pipelineErr.Manifest.Snippets, 3)
	assert.Len(t, pipelineErr.Manifest.Scenes, 3)
	assert.Nil(t, pipelineErr.Manifest.StitchedVideo)

	stage, ok := h.stageTracker.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, domain.StageFailed, stage)
}

func TestPipelineOrchestrator_DropPolicyContinuesWithSurvivors(t *testing.T) {
	cfg := testPipelineConfig(t.TempDir())
	cfg.DropFailedScenes = true
	h := newOrchestratorHarness(t, cfg, false)
	h.jobs.failSubstring = "scene two text"

	manifest, err := h.orchestrator.Run(context.Background(), runParams())
	require.NoError(t, err)

	// Scene 2 is gone from BOTH tracks so narration stays paired.
	require.Len(t, manifest.VideoClips, 2)
	require.Len(t, manifest.AudioClips, 2)
	assert.Equal(t, 1, manifest.VideoClips[0].SceneNumber)
	assert.Equal(t, 3, manifest.VideoClips[1].SceneNumber)
	assert.Equal(t, 1, manifest.AudioClips[0].SceneNumber)
	assert.Equal(t, 3, manifest.AudioClips[1].SceneNumber)

	require.NotNil(t, manifest.FinalVideo)
}

func TestPipelineOrchestrator_DropPolicyStillFailsWithNoSurvivors(t *testing.T) {
	cfg := testPipelineConfig(t.TempDir())
	cfg.DropFailedScenes = true
	h := newOrchestratorHarness(t, cfg, false)
	h.jobs.failSubstring = "scene"

	_, err := h.orchestrator.Run(context.Background(), runParams())

	var pipelineErr *domain.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, domain.StageGeneratingMedia, pipelineErr.Stage)
}

func TestPipelineOrchestrator_AudioFailureAlsoAborts(t *testing.T) {
	h := newOrchestratorHarness(t, testPipelineConfig(t.TempDir()), false)
	h.synth.failText = "scene three text"

	_, err := h.orchestrator.Run(context.Background(), runParams())

	var pipelineErr *domain.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, domain.StageGeneratingMedia, pipelineErr.Stage)
}
