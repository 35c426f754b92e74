package services

import (
	"context"
	"encoding/json"
	"testing"

	"podcast-shorts-pipeline/domain"
	"podcast-shorts-pipeline/infrastructure/adapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenesJSON(t *testing.T, scenes []domain.SceneDescription) string {
	t.Helper()
	payload, err := json.Marshal(sceneResponse{Scenes: scenes})
	require.NoError(t, err)
	return string(payload)
}

func TestSceneComposer_OneScenePerSnippet(t *testing.T) {
	canned := scenesJSON(t, []domain.SceneDescription{
		{SceneNumber: 7, TranscriptText: "first", VisualPrompt: "a storm rolling in", Duration: 6},
		{SceneNumber: 2, TranscriptText: "second", VisualPrompt: "a quiet harbor", Duration: 8},
	})
	generator := &fakeTextGenerator{responses: []string{canned}}
	composer := NewSceneComposer(adapters.NewZerologWrapper(), generator, testPipelineConfig(t.TempDir()))

	scenes, err := composer.Compose(context.Background(), []domain.Snippet{
		{Text: "first", StartTime: floatPtr(12), EndTime: floatPtr(18)},
		{Text: "second"},
	})
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	// Collaborator numbering is untrusted; scenes are renumbered in order.
	assert.Equal(t, 1, scenes[0].SceneNumber)
	assert.Equal(t, 2, scenes[1].SceneNumber)
	assert.Equal(t, 12.0, scenes[0].StartTime)
}

func TestSceneComposer_ClampsDuration(t *testing.T) {
	canned := scenesJSON(t, []domain.SceneDescription{
		{TranscriptText: "too long", VisualPrompt: "x", Duration: 45},
		{TranscriptText: "missing", VisualPrompt: "y"},
	})
	generator := &fakeTextGenerator{responses: []string{canned}}
	composer := NewSceneComposer(adapters.NewZerologWrapper(), generator, testPipelineConfig(t.TempDir()))

	scenes, err := composer.Compose(context.Background(), []domain.Snippet{
		{Text: "too long"}, {Text: "missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, scenes[0].Duration)
	assert.Equal(t, 8.0, scenes[1].Duration)
}

func TestSceneComposer_FillsMissingTranscriptText(t *testing.T) {
	canned := scenesJSON(t, []domain.SceneDescription{
		{VisualPrompt: "a lighthouse at dusk", Duration: 8},
	})
	generator := &fakeTextGenerator{responses: []string{canned}}
	composer := NewSceneComposer(adapters.NewZerologWrapper(), generator, testPipelineConfig(t.TempDir()))

	scenes, err := composer.Compose(context.Background(), []domain.Snippet{{Text: "the snippet text"}})
	require.NoError(t, err)
	assert.Equal(t, "the snippet text", scenes[0].TranscriptText)
}

func TestSceneComposer_CountMismatchRepromptRecovers(t *testing.T) {
	short := scenesJSON(t, []domain.SceneDescription{
		{TranscriptText: "only one", VisualPrompt: "x", Duration: 8},
	})
	full := scenesJSON(t, []domain.SceneDescription{
		{TranscriptText: "one", VisualPrompt: "x", Duration: 8},
		{TranscriptText: "two", VisualPrompt: "y", Duration: 6},
	})
	generator := &fakeTextGenerator{responses: []string{short, full}}
	composer := NewSceneComposer(adapters.NewZerologWrapper(), generator, testPipelineConfig(t.TempDir()))

	scenes, err := composer.Compose(context.Background(), []domain.Snippet{
		{Text: "one"}, {Text: "two"},
	})
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	require.Len(t, generator.calls, 2)
	assert.Contains(t, generator.calls[1], "EXACTLY 2 scenes")
}

func TestSceneComposer_CountMismatchFailsAfterReprompt(t *testing.T) {
	canned := scenesJSON(t, []domain.SceneDescription{
		{TranscriptText: "only one", VisualPrompt: "x", Duration: 8},
	})
	generator := &fakeTextGenerator{responses: []string{canned}}
	composer := NewSceneComposer(adapters.NewZerologWrapper(), generator, testPipelineConfig(t.TempDir()))

	_, err := composer.Compose(context.Background(), []domain.Snippet{
		{Text: "one"}, {Text: "two"},
	})
	var genErr *domain.ContentGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Len(t, generator.calls, 2)
}

func TestSceneComposer_NoSnippetsFails(t *testing.T) {
	composer := NewSceneComposer(adapters.NewZerologWrapper(), &fakeTextGenerator{}, testPipelineConfig(t.TempDir()))

	_, err := composer.Compose(context.Background(), nil)
	var genErr *domain.ContentGenerationError
	require.ErrorAs(t, err, &genErr)
}
