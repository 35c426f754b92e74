package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
)

type s3ArtifactPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3ArtifactPublisher(logger outbound.LoggerPort, s3Svc *s3.S3,
	s3Config *config.S3Config) outbound.ArtifactPublisherPort {
	return &s3ArtifactPublisher{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3ArtifactPublisher) Publish(ctx context.Context, req outbound.PublishArtifactRequest) (*outbound.PublishArtifactResponse, error) {
	itemPath := s.getS3ItemPath(req)

	file, err := os.Open(req.FilePath)
	if err != nil {
		s.logger.Error(err, "Failed to open final video file")
		return nil, err
	}

	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close final video file")
		}
	}(file)

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(itemPath),
		Body:   file,
	}

	_, err = s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.Error(err, "Failed to upload final video to S3")
		return nil, err
	}

	return &outbound.PublishArtifactResponse{
		ArtifactKey: itemPath,
		StoreRegion: s.s3Config.Region,
	}, nil
}

func (s *s3ArtifactPublisher) getS3ItemPath(req outbound.PublishArtifactRequest) string {
	name := filepath.Base(req.FilePath)
	return fmt.Sprintf("run/%s/video/%s-%s", req.RunID, uuid.NewString(), name)
}
