package config

import (
	"fmt"
	"os"
)

type GeminiConfig struct {
	ApiKey               string
	Model                string
	Temperature          float64
	MaxOutputTokens      int
	MaxRequestsPerMinute int
}

func GetGeminiConfig() (*GeminiConfig, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		return nil, fmt.Errorf("GEMINI_MODEL must be set")
	}

	return &GeminiConfig{
		ApiKey:               apiKey,
		Model:                model,
		Temperature:          envOrDefaultFloat("GEMINI_TEMPERATURE", 0.7),
		MaxOutputTokens:      envOrDefaultInt("GEMINI_MAX_OUTPUT_TOKENS", 6000),
		MaxRequestsPerMinute: envOrDefaultInt("GEMINI_MAX_REQUESTS_PER_MINUTE", 30),
	}, nil
}
