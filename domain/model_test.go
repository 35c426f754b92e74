package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_FullText(t *testing.T) {
	plain := Transcript{Text: "just text"}
	assert.Equal(t, "just text", plain.FullText())

	segmented := Transcript{Segments: []TranscriptSegment{
		{Text: "hello", Start: 0, Duration: 2},
		{Text: "world", Start: 2, Duration: 3},
	}}
	assert.Equal(t, "hello world", segmented.FullText())
}

func TestTranscript_TotalDuration(t *testing.T) {
	plain := Transcript{Text: "no timing"}
	assert.Equal(t, 0.0, plain.TotalDuration())

	segmented := Transcript{Segments: []TranscriptSegment{
		{Text: "hello", Start: 0, Duration: 2},
		{Text: "world", Start: 2, Duration: 3.5},
	}}
	assert.Equal(t, 5.5, segmented.TotalDuration())
}

func TestClipOrderingBySceneNumber(t *testing.T) {
	clips := []VideoClip{{SceneNumber: 3}, {SceneNumber: 1}, {SceneNumber: 2}}
	sort.Sort(VideoClipsAscBySceneNumber(clips))
	assert.Equal(t, 1, clips[0].SceneNumber)
	assert.Equal(t, 3, clips[2].SceneNumber)

	audio := []AudioClip{{SceneNumber: 2}, {SceneNumber: 1}}
	sort.Sort(AudioClipsAscBySceneNumber(audio))
	assert.Equal(t, 1, audio[0].SceneNumber)
}
