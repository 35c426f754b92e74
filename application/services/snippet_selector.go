package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type snippetSelector struct {
	logger         outbound.LoggerPort
	textGenerator  outbound.TextGeneratorPort
	pipelineConfig *config.PipelineConfig
}

func NewSnippetSelector(logger outbound.LoggerPort, textGenerator outbound.TextGeneratorPort,
	pipelineConfig *config.PipelineConfig) inbound.SnippetSelectorPort {
	return &snippetSelector{
		logger:         logger,
		textGenerator:  textGenerator,
		pipelineConfig: pipelineConfig,
	}
}

type snippetResponse struct {
	Snippets []domain.Snippet `json:"snippets"`
}

func (s *snippetSelector) Select(ctx context.Context, params inbound.SelectSnippetsParams) ([]domain.Snippet, error) {
	maxSnippets := params.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = s.pipelineConfig.DefaultSnippets
	}

	totalDuration := params.Transcript.TotalDuration()
	if totalDuration > 0 && totalDuration <= s.pipelineConfig.MaxSceneDuration {
		start := 0.0
		end := totalDuration
		return []domain.Snippet{{
			Text:      params.Transcript.FullText(),
			StartTime: &start,
			EndTime:   &end,
		}}, nil
	}

	prompt := s.buildPrompt(params.Transcript.FullText(), maxSnippets)

	parsed, err := generateStructured[snippetResponse](ctx, s.textGenerator, s.logger, prompt)
	if err != nil {
		return nil, err
	}

	if len(parsed.Snippets) == 0 {
		return nil, &domain.ContentGenerationError{Msg: "collaborator returned no snippets"}
	}

	snippets := parsed.Snippets
	if len(snippets) > maxSnippets {
		s.logger.WarnWithFields("truncating snippet list", map[string]interface{}{
			"returned": len(snippets),
			"max":      maxSnippets,
		})
		snippets = snippets[:maxSnippets]
	}

	for i := range snippets {
		s.normalizeTiming(&snippets[i], totalDuration)
	}

	s.logger.InfoWithFields("snippets selected", map[string]interface{}{
		"count": len(snippets),
	})
	return snippets, nil
}

// normalizeTiming clears timing that violates the snippet invariants
// rather than failing the run over an unreliable collaborator timestamp.
func (s *snippetSelector) normalizeTiming(snippet *domain.Snippet, totalDuration float64) {
	if snippet.StartTime == nil || snippet.EndTime == nil {
		snippet.StartTime = nil
		snippet.EndTime = nil
		return
	}
	start, end := *snippet.StartTime, *snippet.EndTime
	valid := start >= 0 && start < end
	if totalDuration > 0 && end > totalDuration {
		valid = false
	}
	if !valid {
		s.logger.WarnWithFields("dropping invalid snippet timing", map[string]interface{}{
			"start": start,
			"end":   end,
		})
		snippet.StartTime = nil
		snippet.EndTime = nil
	}
}

func (s *snippetSelector) buildPrompt(transcriptText string, maxSnippets int) string {
	return fmt.Sprintf(`You are selecting interesting, engaging snippets from a podcast transcript for use in video generation.

SOURCE TRANSCRIPT:
"""%s"""

TASK:
Extract at most %d compelling, continuous snippets from the transcript that would make excellent visual scenes for video generation.

SELECTION CRITERIA:
1. Choose snippets that are visually interesting and action-oriented
2. Prioritize descriptive content that can be visualized
3. Select moments with emotional impact or key insights
4. Each snippet should be approximately %.0f seconds of spoken content
5. Snippets must be continuous (no skipping around within a snippet)
6. Replace speaker names with generic labels (e.g., "Person 1", "Person 2")

OUTPUT FORMAT (JSON):
{"snippets": [{"text": "exact transcript text", "start_time": 0.0, "end_time": 8.0, "context": "brief context", "reason": "why selected"}]}

Return ONLY valid JSON, no additional text.`, transcriptText, maxSnippets, s.pipelineConfig.MaxSceneDuration)
}

// generateStructured calls the text-generation collaborator and parses its
// JSON response, re-prompting once when the first response is malformed.
func generateStructured[T any](ctx context.Context, generator outbound.TextGeneratorPort,
	logger outbound.LoggerPort, prompt string) (*T, error) {
	raw, err := generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, parseErr := parseJSONResponse[T](raw)
	if parseErr == nil {
		return parsed, nil
	}

	logger.WarnWithFields("malformed collaborator response, re-prompting once", map[string]interface{}{
		"error": parseErr.Error(),
	})

	raw, err = generator.Generate(ctx, prompt+"\n\nThe previous response was not valid JSON. Respond with ONLY the JSON object.")
	if err != nil {
		return nil, err
	}
	parsed, parseErr = parseJSONResponse[T](raw)
	if parseErr != nil {
		return nil, &domain.ContentGenerationError{Msg: "malformed response after reparse attempt", Err: parseErr}
	}
	return parsed, nil
}

// parseJSONResponse tolerates markdown code fences around the JSON body.
func parseJSONResponse[T any](raw string) (*T, error) {
	body := strings.TrimSpace(raw)
	if idx := strings.Index(body, "```json"); idx >= 0 {
		body = body[idx+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
	} else if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```")
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
	}

	var parsed T
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
