package adapters

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type geminiTextGenerator struct {
	logger       outbound.LoggerPort
	client       *genai.Client
	geminiConfig *config.GeminiConfig
	limiter      *rate.Limiter
}

// NewGeminiTextGenerator wraps the Gemini client with a request-per-minute
// limiter so concurrent pipeline stages stay inside the model quota.
func NewGeminiTextGenerator(logger outbound.LoggerPort, client *genai.Client,
	geminiConfig *config.GeminiConfig) outbound.TextGeneratorPort {
	perMinute := geminiConfig.MaxRequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &geminiTextGenerator{
		logger:       logger,
		client:       client,
		geminiConfig: geminiConfig,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (g *geminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	temperature := float32(g.geminiConfig.Temperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.geminiConfig.Model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      &temperature,
			MaxOutputTokens:  int32(g.geminiConfig.MaxOutputTokens),
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		g.logger.ErrorWithFields(err, "Gemini content generation failed", map[string]interface{}{
			"model": g.geminiConfig.Model,
		})
		return "", &domain.TransientServiceError{Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &domain.ContentGenerationError{Msg: fmt.Sprintf("model %s returned empty response", g.geminiConfig.Model)}
	}
	return text, nil
}
