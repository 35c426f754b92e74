package domain

import "strings"

// TranscriptSegment is one timed piece of a transcript.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the immutable input to the pipeline. Either Text or
// Segments is populated; Segments carry timing, plain text does not.
type Transcript struct {
	Text     string              `json:"text,omitempty"`
	Segments []TranscriptSegment `json:"segments,omitempty"`
}

func (t Transcript) FullText() string {
	if len(t.Segments) == 0 {
		return t.Text
	}
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// TotalDuration returns the transcript duration in seconds, or 0 when
// no timing information is available.
func (t Transcript) TotalDuration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	last := t.Segments[len(t.Segments)-1]
	return last.Start + last.Duration
}

type Snippet struct {
	Text      string   `json:"text"`
	StartTime *float64 `json:"start_time,omitempty"`
	EndTime   *float64 `json:"end_time,omitempty"`
	Context   string   `json:"context,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// SceneDescription pairs one visual prompt with the narration text spoken
// over it. SceneNumber is 1-based and contiguous; it is the only key used
// to correlate clips and audio downstream.
type SceneDescription struct {
	SceneNumber    int     `json:"scene_number"`
	TranscriptText string  `json:"transcript_text"`
	VisualPrompt   string  `json:"visual_prompt"`
	Duration       float64 `json:"duration"`
	StartTime      float64 `json:"start_time,omitempty"`
}

type VideoClip struct {
	SceneNumber    int     `json:"scene_number"`
	FilePath       string  `json:"file_path"`
	Duration       float64 `json:"duration"`
	TranscriptText string  `json:"transcript_text,omitempty"`
}

type AudioClip struct {
	SceneNumber    int     `json:"scene_number"`
	FilePath       string  `json:"file_path"`
	Duration       float64 `json:"duration"`
	VoiceID        string  `json:"voice_id"`
	TranscriptText string  `json:"transcript_text,omitempty"`
}

type StitchedVideo struct {
	FilePath string  `json:"file_path"`
	Duration float64 `json:"duration"`
}

type FinalVideo struct {
	FilePath string  `json:"file_path"`
	Duration float64 `json:"duration"`
}

// Stage names a step of the pipeline state machine.
type Stage string

const (
	StageIdle               Stage = "idle"
	StageExtractingSnippets Stage = "extracting_snippets"
	StageComposingScenes    Stage = "composing_scenes"
	StageGeneratingMedia    Stage = "generating_media"
	StageStitching          Stage = "stitching"
	StageSyncing            Stage = "syncing"
	StagePublishing         Stage = "publishing"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// Manifest connects scene numbers to the artifacts produced for them.
// It is owned by the orchestrator of a single run and discarded once the
// final video is returned.
type Manifest struct {
	RunID         string             `json:"run_id"`
	Snippets      []Snippet          `json:"snippets,omitempty"`
	Scenes        []SceneDescription `json:"scenes,omitempty"`
	VideoClips    []VideoClip        `json:"video_clips,omitempty"`
	AudioClips    []AudioClip        `json:"audio_clips,omitempty"`
	StitchedVideo *StitchedVideo     `json:"stitched_video,omitempty"`
	FinalVideo    *FinalVideo        `json:"final_video,omitempty"`
	ArtifactKey   string             `json:"artifact_key,omitempty"`
}

type VideoClipsAscBySceneNumber []VideoClip

func (v VideoClipsAscBySceneNumber) Len() int           { return len(v) }
func (v VideoClipsAscBySceneNumber) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v VideoClipsAscBySceneNumber) Less(i, j int) bool { return v[i].SceneNumber < v[j].SceneNumber }

type AudioClipsAscBySceneNumber []AudioClip

func (a AudioClipsAscBySceneNumber) Len() int           { return len(a) }
func (a AudioClipsAscBySceneNumber) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a AudioClipsAscBySceneNumber) Less(i, j int) bool { return a[i].SceneNumber < a[j].SceneNumber }
