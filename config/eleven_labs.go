package config

import (
	"fmt"
	"os"
)

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	DefaultVoiceID  string
	Stability       float64
	SimilarityBoost float64
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiUrl := os.Getenv("ELEVEN_LABS_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_URL must be set")
	}
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	modelId := os.Getenv("ELEVEN_LABS_MODEL_ID")
	if modelId == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_MODEL_ID must be set")
	}
	defaultVoice := os.Getenv("ELEVEN_LABS_DEFAULT_VOICE_ID")
	if defaultVoice == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_DEFAULT_VOICE_ID must be set")
	}

	return &ElevenLabsConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		ModelId:         modelId,
		DefaultVoiceID:  defaultVoice,
		Stability:       envOrDefaultFloat("ELEVEN_LABS_STABILITY", 0.5),
		SimilarityBoost: envOrDefaultFloat("ELEVEN_LABS_SIMILARITY_BOOST", 0.75),
	}, nil
}
