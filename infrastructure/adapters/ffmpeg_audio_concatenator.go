package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"podcast-shorts-pipeline/application/ports/outbound"
)

type ffmpegAudioConcatenator struct {
	logger outbound.LoggerPort
}

func NewFFmpegAudioConcatenator(logger outbound.LoggerPort) outbound.AudioConcatenatorPort {
	return &ffmpegAudioConcatenator{
		logger: logger,
	}
}

func (f *ffmpegAudioConcatenator) Concatenate(ctx context.Context, inputPaths []string, outputPath string) error {
	listFileName := filepath.Join(os.TempDir(), uuid.NewString()+".txt")
	fileList, err := os.Create(listFileName)
	if err != nil {
		f.logger.Error(err, "Failed to create audio list file")
		return err
	}
	defer func(name string) {
		err := os.Remove(name)
		if err != nil {
			f.logger.Error(err, "Failed to remove audio list file")
		}
	}(listFileName)

	writer := bufio.NewWriter(fileList)
	for _, p := range inputPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			closeQuietly(fileList, f.logger)
			return err
		}
		if _, err := writer.WriteString("file '" + absPath + "'\n"); err != nil {
			f.logger.Error(err, "Failed to write to audio list file")
			closeQuietly(fileList, f.logger)
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error(err, "Failed to flush audio list file")
		closeQuietly(fileList, f.logger)
		return err
	}
	closeQuietly(fileList, f.logger)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-f", "concat", "-safe", "0",
		"-i", listFileName, "-c", "copy", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.logger.ErrorWithFields(err, "Failed to concatenate audio clips", map[string]interface{}{
			"output": string(out),
		})
		return fmt.Errorf("ffmpeg audio concat failed: %w", err)
	}

	return nil
}

func closeQuietly(file *os.File, logger outbound.LoggerPort) {
	if err := file.Close(); err != nil {
		logger.Error(err, "Failed to close file")
	}
}
