package adapters

import (
	"context"
	"os"
	"path/filepath"

	"podcast-shorts-pipeline/application/ports/outbound"
)

type localMediaStore struct {
	logger outbound.LoggerPort
}

func NewLocalMediaStore(logger outbound.LoggerPort) outbound.MediaStorePort {
	return &localMediaStore{
		logger: logger,
	}
}

func (s *localMediaStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Error(err, "Failed to create artifact directory")
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.ErrorWithFields(err, "Failed to write artifact", map[string]interface{}{
			"path": path,
		})
		return err
	}
	return nil
}

func (s *localMediaStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to read artifact", map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	return data, nil
}
