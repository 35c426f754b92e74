package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"podcast-shorts-pipeline/domain"
	"podcast-shorts-pipeline/infrastructure/adapters"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainAudio(out <-chan domain.AudioClip, errCh <-chan error) ([]domain.AudioClip, []error) {
	var clips []domain.AudioClip
	var errs []error
	for out != nil || errCh != nil {
		select {
		case clip, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			clips = append(clips, clip)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			errs = append(errs, err)
		}
	}
	return clips, errs
}

func TestNarrationGenerator_NarratesAllScenes(t *testing.T) {
	synth := &fakeSynthesizer{}
	store := newMemMediaStore()
	outputDir := t.TempDir()

	generator := NewNarrationGenerator(adapters.NewZerologWrapper(), synth, store,
		&fakeProber{defaultDuration: 5.5}, testPool(t), testPipelineConfig(outputDir))

	out, errCh := generator.Generate(context.Background(), feedScenes(testScenes()), "voice-a", outputDir)
	clips, errs := drainAudio(out, errCh)

	require.Empty(t, errs)
	require.Len(t, clips, 3)

	bySc := make(map[int]domain.AudioClip, len(clips))
	for _, clip := range clips {
		bySc[clip.SceneNumber] = clip
	}
	for _, scene := range testScenes() {
		clip, ok := bySc[scene.SceneNumber]
		require.True(t, ok, "missing narration for scene %d", scene.SceneNumber)
		assert.Equal(t, "voice-a", clip.VoiceID)
		assert.Equal(t, 5.5, clip.Duration)
		assert.Contains(t, clip.FilePath, "narration_scene_")

		data, err := store.Read(context.Background(), clip.FilePath)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestNarrationGenerator_SynthesizesTranscriptVerbatim(t *testing.T) {
	synth := &fakeSynthesizer{}
	outputDir := t.TempDir()

	generator := NewNarrationGenerator(adapters.NewZerologWrapper(), synth, newMemMediaStore(),
		&fakeProber{defaultDuration: 5}, testPool(t), testPipelineConfig(outputDir))

	out, errCh := generator.Generate(context.Background(), feedScenes(testScenes()[:1]), "voice-a", outputDir)
	_, errs := drainAudio(out, errCh)
	require.Empty(t, errs)

	require.Len(t, synth.requests, 1)
	assert.Equal(t, "scene one text", synth.requests[0].Text)
	assert.Equal(t, "voice-a", synth.requests[0].VoiceID)
}

func TestNarrationGenerator_RetriesTransientOnce(t *testing.T) {
	synth := &fakeSynthesizer{transientText: "scene two text", transientFails: 1}
	outputDir := t.TempDir()

	generator := NewNarrationGenerator(adapters.NewZerologWrapper(), synth, newMemMediaStore(),
		&fakeProber{defaultDuration: 5}, testPool(t), testPipelineConfig(outputDir))

	out, errCh := generator.Generate(context.Background(), feedScenes(testScenes()), "voice-a", outputDir)
	clips, errs := drainAudio(out, errCh)

	require.Empty(t, errs)
	assert.Len(t, clips, 3)
}

func TestNarrationGenerator_TransientExhaustionFailsScene(t *testing.T) {
	// Audio retry budget is two attempts.
	synth := &fakeSynthesizer{transientText: "scene two text", transientFails: 99}
	outputDir := t.TempDir()

	generator := NewNarrationGenerator(adapters.NewZerologWrapper(), synth, newMemMediaStore(),
		&fakeProber{defaultDuration: 5}, testPool(t), testPipelineConfig(outputDir))

	out, errCh := generator.Generate(context.Background(), feedScenes(testScenes()), "voice-a", outputDir)
	clips, errs := drainAudio(out, errCh)

	require.Len(t, clips, 2)
	require.Len(t, errs, 1)

	var failure *domain.SceneGenerationFailure
	require.ErrorAs(t, errs[0], &failure)
	assert.Equal(t, 2, failure.SceneNumber)
	assert.Equal(t, "audio", failure.Medium)
	assert.Equal(t, 2, synth.transientCount)
}

func TestNarrationGenerator_MidStreamCancellationDoesNotPanicWorkers(t *testing.T) {
	var panics int64
	pool, err := ants.NewPool(16, ants.WithPanicHandler(func(interface{}) {
		atomic.AddInt64(&panics, 1)
	}))
	require.NoError(t, err)
	defer pool.Release()

	outputDir := t.TempDir()

	for i := 0; i < 100; i++ {
		synth := &fakeSynthesizer{synthDelay: 3 * time.Millisecond}
		generator := NewNarrationGenerator(adapters.NewZerologWrapper(), synth, newMemMediaStore(),
			&fakeProber{defaultDuration: 5}, pool, testPipelineConfig(outputDir))

		ctx, cancel := context.WithCancel(context.Background())
		out, errCh := generator.Generate(ctx, feedScenes(testScenes()), "voice-a", outputDir)
		time.Sleep(time.Millisecond)
		cancel()
		drainAudio(out, errCh)
	}

	assert.Zero(t, atomic.LoadInt64(&panics), "no worker may outlive the stage channels")
}
