package dto

import "podcast-shorts-pipeline/domain"

type SnippetsResponse struct {
	Snippets      []domain.Snippet `json:"snippets"`
	TotalSnippets int              `json:"total_snippets"`
}

type ScenesResponse struct {
	Scenes        []domain.SceneDescription `json:"scenes"`
	TotalDuration float64                   `json:"total_duration"`
}

type ClipsResponse struct {
	RunID         string             `json:"run_id"`
	Clips         []domain.VideoClip `json:"clips"`
	TotalDuration float64            `json:"total_duration"`
	FailedScenes  []int              `json:"failed_scenes,omitempty"`
}

type NarrationResponse struct {
	RunID         string             `json:"run_id"`
	AudioClips    []domain.AudioClip `json:"audio_clips"`
	TotalDuration float64            `json:"total_duration"`
	FailedScenes  []int              `json:"failed_scenes,omitempty"`
}

type StitchResponse struct {
	RunID         string               `json:"run_id"`
	StitchedVideo domain.StitchedVideo `json:"stitched_video"`
}

type SyncResponse struct {
	RunID      string            `json:"run_id"`
	FinalVideo domain.FinalVideo `json:"final_video"`
}

type PipelineResponse struct {
	Manifest domain.Manifest `json:"manifest"`
}

type PipelineErrorResponse struct {
	Stage    domain.Stage     `json:"stage"`
	Error    string           `json:"error"`
	Manifest *domain.Manifest `json:"manifest,omitempty"`
}

type ProgressEvent struct {
	RunID string       `json:"run_id"`
	Stage domain.Stage `json:"stage"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
