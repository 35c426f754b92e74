package outbound

import "context"

type PublishArtifactRequest struct {
	RunID    string
	FilePath string
}

type PublishArtifactResponse struct {
	ArtifactKey string
	StoreRegion string
}

// ArtifactPublisherPort uploads the final video to durable storage.
type ArtifactPublisherPort interface {
	Publish(ctx context.Context, req PublishArtifactRequest) (*PublishArtifactResponse, error)
}
