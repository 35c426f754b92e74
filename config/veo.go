package config

import (
	"fmt"
	"os"
	"time"
)

type VeoConfig struct {
	Model           string
	SubmitTimeout   time.Duration
	PollTimeout     time.Duration
	FetchTimeout    time.Duration
	PollInterval    time.Duration
	MaxPollDuration time.Duration
}

func GetVeoConfig() (*VeoConfig, error) {
	model := os.Getenv("VEO_MODEL")
	if model == "" {
		return nil, fmt.Errorf("VEO_MODEL must be set")
	}

	return &VeoConfig{
		Model:           model,
		SubmitTimeout:   time.Duration(envOrDefaultInt("VEO_SUBMIT_TIMEOUT_SECONDS", 60)) * time.Second,
		PollTimeout:     time.Duration(envOrDefaultInt("VEO_POLL_TIMEOUT_SECONDS", 30)) * time.Second,
		FetchTimeout:    time.Duration(envOrDefaultInt("VEO_FETCH_TIMEOUT_SECONDS", 120)) * time.Second,
		PollInterval:    time.Duration(envOrDefaultInt("VEO_POLL_INTERVAL_SECONDS", 10)) * time.Second,
		MaxPollDuration: time.Duration(envOrDefaultInt("VEO_MAX_POLL_SECONDS", 600)) * time.Second,
	}, nil
}
