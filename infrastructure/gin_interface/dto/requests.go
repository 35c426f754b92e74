package dto

import "podcast-shorts-pipeline/domain"

type TranscriptRequest struct {
	Text     string                     `json:"text"`
	Segments []domain.TranscriptSegment `json:"segments"`
}

func (t TranscriptRequest) ToDomain() domain.Transcript {
	return domain.Transcript{Text: t.Text, Segments: t.Segments}
}

type ExtractSnippetsRequest struct {
	Transcript  TranscriptRequest `json:"transcript" binding:"required"`
	MaxSnippets int               `json:"max_snippets"`
}

type ComposeScenesRequest struct {
	Snippets []domain.Snippet `json:"snippets" binding:"required"`
}

type GenerateClipsRequest struct {
	RunID  string                    `json:"run_id"`
	Scenes []domain.SceneDescription `json:"scenes" binding:"required"`
}

type GenerateNarrationRequest struct {
	RunID   string                    `json:"run_id"`
	Scenes  []domain.SceneDescription `json:"scenes" binding:"required"`
	VoiceID string                    `json:"voice_id"`
}

type StitchRequest struct {
	RunID string             `json:"run_id"`
	Clips []domain.VideoClip `json:"clips" binding:"required"`
}

type SyncRequest struct {
	RunID      string               `json:"run_id"`
	Stitched   domain.StitchedVideo `json:"stitched_video" binding:"required"`
	AudioClips []domain.AudioClip   `json:"audio_clips" binding:"required"`
}

type GeneratePipelineRequest struct {
	Transcript  TranscriptRequest `json:"transcript" binding:"required"`
	MaxSnippets int               `json:"max_snippets"`
	VoiceID     string            `json:"voice_id"`
}
