package services

import (
	"context"
	"fmt"
	"strings"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type sceneComposer struct {
	logger         outbound.LoggerPort
	textGenerator  outbound.TextGeneratorPort
	pipelineConfig *config.PipelineConfig
}

func NewSceneComposer(logger outbound.LoggerPort, textGenerator outbound.TextGeneratorPort,
	pipelineConfig *config.PipelineConfig) inbound.SceneComposerPort {
	return &sceneComposer{
		logger:         logger,
		textGenerator:  textGenerator,
		pipelineConfig: pipelineConfig,
	}
}

type sceneResponse struct {
	Scenes []domain.SceneDescription `json:"scenes"`
}

func (s *sceneComposer) Compose(ctx context.Context, snippets []domain.Snippet) ([]domain.SceneDescription, error) {
	if len(snippets) == 0 {
		return nil, &domain.ContentGenerationError{Msg: "no snippets to compose scenes from"}
	}

	prompt := s.buildPrompt(snippets)

	parsed, err := generateStructured[sceneResponse](ctx, s.textGenerator, s.logger, prompt)
	if err != nil {
		return nil, err
	}
	// Wrong cardinality is malformed output like bad JSON is; it gets the
	// same single corrective re-prompt before the run fails.
	if len(parsed.Scenes) != len(snippets) {
		s.logger.WarnWithFields("scene count mismatch, re-prompting once", map[string]interface{}{
			"expected": len(snippets),
			"returned": len(parsed.Scenes),
		})
		retryPrompt := prompt + fmt.Sprintf(
			"\n\nThe previous response contained %d scenes. Respond again with EXACTLY %d scenes, one per snippet, in snippet order.",
			len(parsed.Scenes), len(snippets))
		parsed, err = generateStructured[sceneResponse](ctx, s.textGenerator, s.logger, retryPrompt)
		if err != nil {
			return nil, err
		}
		if len(parsed.Scenes) != len(snippets) {
			return nil, &domain.ContentGenerationError{
				Msg: fmt.Sprintf("expected %d scenes, collaborator returned %d", len(snippets), len(parsed.Scenes)),
			}
		}
	}

	scenes := parsed.Scenes
	maxDuration := s.pipelineConfig.MaxSceneDuration
	for i := range scenes {
		// Scene numbers are reassigned contiguously in input order; the
		// collaborator's own numbering is untrusted.
		scenes[i].SceneNumber = i + 1
		if scenes[i].Duration <= 0 || scenes[i].Duration > maxDuration {
			scenes[i].Duration = maxDuration
		}
		if scenes[i].TranscriptText == "" {
			scenes[i].TranscriptText = snippets[i].Text
		}
		if snippets[i].StartTime != nil {
			scenes[i].StartTime = *snippets[i].StartTime
		}
	}

	s.logger.InfoWithFields("scenes composed", map[string]interface{}{
		"count": len(scenes),
	})
	return scenes, nil
}

func (s *sceneComposer) buildPrompt(snippets []domain.Snippet) string {
	var sb strings.Builder
	for i, snippet := range snippets {
		snippetContext := snippet.Context
		if snippetContext == "" {
			snippetContext = "N/A"
		}
		sb.WriteString(fmt.Sprintf("Snippet %d:\n%s\nContext: %s\n\n", i+1, snippet.Text, snippetContext))
	}

	maxDuration := s.pipelineConfig.MaxSceneDuration
	return fmt.Sprintf(`You are an expert AI Cinematographer and Visual Director. Translate podcast transcript snippets into detailed, photorealistic video generation prompts.

TRANSCRIPT SNIPPETS:
%s
OBJECTIVE:
Convert each snippet into one visual scene description. Each scene will be at most %.0f seconds long and SILENT; the narration audio is added separately.

CRITICAL CONSTRAINTS:
1. One scene per snippet, in snippet order
2. Scene duration must not exceed %.0f seconds
3. NO audio, vocals, speech, or sound effects in the description
4. NO visible people speaking, singing, or facing the camera; no lip movement
5. NO on-screen text, subtitles, or captions
6. NO podcast studios, microphones, or interview setups
7. Visualize the STORY being told, not people talking

Each visual prompt must start with:
"Cinematic lighting, photorealistic 4k, vertical 9:16 aspect ratio."

OUTPUT FORMAT (JSON):
{"scenes": [{"scene_number": 1, "transcript_text": "original snippet text", "visual_prompt": "Cinematic lighting, photorealistic 4k, vertical 9:16 aspect ratio. ...", "duration": %.0f}]}

Return ONLY valid JSON, no additional text.`, sb.String(), maxDuration, maxDuration, maxDuration)
}
