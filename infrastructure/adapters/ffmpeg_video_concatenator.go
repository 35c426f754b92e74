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

type ffmpegVideoConcatenator struct {
	logger outbound.LoggerPort
}

func NewFFmpegVideoConcatenator(logger outbound.LoggerPort) outbound.VideoConcatenatorPort {
	return &ffmpegVideoConcatenator{
		logger: logger,
	}
}

// Concatenate joins the inputs with the concat demuxer. The lossless path
// stream-copies; the reencode path normalizes codec and pixel format for
// clips the demuxer refuses to copy together.
func (f *ffmpegVideoConcatenator) Concatenate(ctx context.Context, inputPaths []string,
	outputPath string, reencode bool) error {
	listFileName, err := f.writeListFile(inputPaths)
	if err != nil {
		return err
	}
	defer func(name string) {
		err := os.Remove(name)
		if err != nil {
			f.logger.Error(err, "Failed to remove video list file")
		}
	}(listFileName)

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listFileName}
	if reencode {
		args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p", "-an", outputPath)
	} else {
		args = append(args, "-c", "copy", outputPath)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.logger.ErrorWithFields(err, "Failed to concatenate videos", map[string]interface{}{
			"reencode": reencode,
			"output":   string(out),
		})
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	return nil
}

func (f *ffmpegVideoConcatenator) writeListFile(inputPaths []string) (string, error) {
	listFileName := filepath.Join(os.TempDir(), uuid.NewString()+".txt")
	fileList, err := os.Create(listFileName)
	if err != nil {
		f.logger.Error(err, "Failed to create video list file")
		return "", err
	}
	defer func(fileList *os.File) {
		err := fileList.Close()
		if err != nil {
			f.logger.Error(err, "Failed to close video list file")
		}
	}(fileList)

	writer := bufio.NewWriter(fileList)
	for _, p := range inputPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		if _, err := writer.WriteString("file '" + absPath + "'\n"); err != nil {
			f.logger.Error(err, "Failed to write to video list file")
			return "", err
		}
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error(err, "Failed to flush video list file")
		return "", err
	}

	return listFileName, nil
}
