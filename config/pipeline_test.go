package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPipelineConfig_RequiresOutputDir(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")

	_, err := GetPipelineConfig()
	require.Error(t, err)
}

func TestGetPipelineConfig_Defaults(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg, err := GetPipelineConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 8.0, cfg.MaxSceneDuration)
	assert.Equal(t, 5, cfg.DefaultSnippets)
	assert.Equal(t, 3, cfg.VideoMaxAttempts)
	assert.Equal(t, 2, cfg.AudioMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.VideoBackoffBase)
	assert.False(t, cfg.DropFailedScenes)
}

func TestGetPipelineConfig_Overrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("VIDEO_WORKERS", "2")
	t.Setenv("DROP_FAILED_SCENES", "true")
	t.Setenv("MAX_SCENE_DURATION", "6.5")

	cfg, err := GetPipelineConfig()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.VideoWorkers)
	assert.True(t, cfg.DropFailedScenes)
	assert.Equal(t, 6.5, cfg.MaxSceneDuration)
}
