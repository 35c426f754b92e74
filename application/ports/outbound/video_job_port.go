package outbound

import "context"

type VideoJobStatus string

const (
	VideoJobRunning   VideoJobStatus = "running"
	VideoJobSucceeded VideoJobStatus = "succeeded"
	VideoJobFailed    VideoJobStatus = "failed"
)

type SubmitVideoJobRequest struct {
	Prompt   string
	Duration float64
}

// VideoJobPort is the asynchronous video-generation collaborator:
// submit a prompt, poll the job until it resolves, then fetch the bytes.
// Each call carries its own context so a hung poll can be timed out
// independently of the per-scene retry budget.
type VideoJobPort interface {
	Submit(ctx context.Context, req SubmitVideoJobRequest) (string, error)
	Poll(ctx context.Context, jobID string) (VideoJobStatus, error)
	Fetch(ctx context.Context, jobID string) ([]byte, error)
}
