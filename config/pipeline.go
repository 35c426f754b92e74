package config

import (
	"fmt"
	"os"
	"time"
)

type PipelineConfig struct {
	OutputDir        string
	MaxSceneDuration float64
	DefaultSnippets  int
	TargetFPS        float64

	VideoWorkers     int
	AudioWorkers     int
	VideoMaxAttempts int
	AudioMaxAttempts int
	VideoBackoffBase time.Duration
	AudioBackoffBase time.Duration

	// DropFailedScenes selects the partial-failure policy: false aborts the
	// run when any scene exhausts its retries, true drops the scene from
	// both tracks and continues with the survivors.
	DropFailedScenes bool
}

func GetPipelineConfig() (*PipelineConfig, error) {
	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		return nil, fmt.Errorf("OUTPUT_DIR must be set")
	}

	return &PipelineConfig{
		OutputDir:        outputDir,
		MaxSceneDuration: envOrDefaultFloat("MAX_SCENE_DURATION", 8),
		DefaultSnippets:  envOrDefaultInt("DEFAULT_MAX_SNIPPETS", 5),
		TargetFPS:        envOrDefaultFloat("TARGET_FPS", 30),
		VideoWorkers:     envOrDefaultInt("VIDEO_WORKERS", 4),
		AudioWorkers:     envOrDefaultInt("AUDIO_WORKERS", 8),
		VideoMaxAttempts: envOrDefaultInt("VIDEO_MAX_ATTEMPTS", 3),
		AudioMaxAttempts: envOrDefaultInt("AUDIO_MAX_ATTEMPTS", 2),
		VideoBackoffBase: time.Duration(envOrDefaultInt("VIDEO_BACKOFF_BASE_SECONDS", 5)) * time.Second,
		AudioBackoffBase: time.Duration(envOrDefaultInt("AUDIO_BACKOFF_BASE_SECONDS", 1)) * time.Second,
		DropFailedScenes: envOrDefaultBool("DROP_FAILED_SCENES", false),
	}, nil
}
