package adapters

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"podcast-shorts-pipeline/application/ports/outbound"
)

type ffprobeDurationProber struct {
	logger outbound.LoggerPort
}

func NewFFprobeDurationProber(logger outbound.LoggerPort) outbound.DurationProberPort {
	return &ffprobeDurationProber{
		logger: logger,
	}
}

func (p *ffprobeDurationProber) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)

	out, err := cmd.Output()
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to probe media duration", map[string]interface{}{
			"path": path,
		})
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		p.logger.Error(err, "Failed to parse media duration")
		return 0, err
	}

	return duration, nil
}
