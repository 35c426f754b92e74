package adapters

import (
	"context"
	"fmt"
	"math"
	"sync"

	"google.golang.org/genai"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

// veoVideoJob adapts the Veo long-running operation API to the
// submit/poll/fetch contract. Operations are tracked by name because the
// SDK needs the operation handle, not just its ID, to poll and download.
type veoVideoJob struct {
	logger    outbound.LoggerPort
	client    *genai.Client
	veoConfig *config.VeoConfig

	mu   sync.Mutex
	jobs map[string]*genai.GenerateVideosOperation
}

func NewVeoVideoJob(logger outbound.LoggerPort, client *genai.Client,
	veoConfig *config.VeoConfig) outbound.VideoJobPort {
	return &veoVideoJob{
		logger:    logger,
		client:    client,
		veoConfig: veoConfig,
		jobs:      make(map[string]*genai.GenerateVideosOperation),
	}
}

func (v *veoVideoJob) Submit(ctx context.Context, req outbound.SubmitVideoJobRequest) (string, error) {
	durationSeconds := int32(math.Ceil(req.Duration))
	op, err := v.client.Models.GenerateVideos(ctx, v.veoConfig.Model, req.Prompt, nil,
		&genai.GenerateVideosConfig{
			NumberOfVideos:  1,
			AspectRatio:     "9:16",
			DurationSeconds: &durationSeconds,
		})
	if err != nil {
		v.logger.ErrorWithFields(err, "Failed to submit video generation job", map[string]interface{}{
			"model": v.veoConfig.Model,
		})
		return "", &domain.TransientServiceError{Err: err}
	}

	v.mu.Lock()
	v.jobs[op.Name] = op
	v.mu.Unlock()

	v.logger.DebugWithFields("video job submitted", map[string]interface{}{
		"job_id": op.Name,
	})
	return op.Name, nil
}

func (v *veoVideoJob) Poll(ctx context.Context, jobID string) (outbound.VideoJobStatus, error) {
	op, err := v.operation(jobID)
	if err != nil {
		return outbound.VideoJobFailed, err
	}
	if op.Done {
		return v.resolve(jobID, op), nil
	}

	updated, err := v.client.Operations.GetVideosOperation(ctx, op, nil)
	if err != nil {
		return outbound.VideoJobRunning, &domain.TransientServiceError{Err: err}
	}

	v.mu.Lock()
	v.jobs[jobID] = updated
	v.mu.Unlock()

	if !updated.Done {
		return outbound.VideoJobRunning, nil
	}
	return v.resolve(jobID, updated), nil
}

func (v *veoVideoJob) Fetch(ctx context.Context, jobID string) ([]byte, error) {
	op, err := v.operation(jobID)
	if err != nil {
		return nil, err
	}
	// A retried scene resubmits a fresh job, so the entry is dead after
	// Fetch whatever the outcome.
	defer v.forget(jobID)

	if !op.Done || op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil, fmt.Errorf("video job %s has no result to fetch", jobID)
	}

	generated := op.Response.GeneratedVideos[0]
	if _, err := v.client.Files.Download(ctx, generated.Video, nil); err != nil {
		v.logger.ErrorWithFields(err, "Failed to download generated video", map[string]interface{}{
			"job_id": jobID,
		})
		return nil, &domain.TransientServiceError{Err: err}
	}
	if len(generated.Video.VideoBytes) == 0 {
		return nil, fmt.Errorf("video job %s downloaded empty payload", jobID)
	}

	return generated.Video.VideoBytes, nil
}

func (v *veoVideoJob) operation(jobID string) (*genai.GenerateVideosOperation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	op, ok := v.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("unknown video job %s", jobID)
	}
	return op, nil
}

// resolve maps a finished operation to a status. Failed operations are
// dropped from the map immediately; there is nothing left to fetch.
func (v *veoVideoJob) resolve(jobID string, op *genai.GenerateVideosOperation) outbound.VideoJobStatus {
	if op.Response != nil && len(op.Response.GeneratedVideos) > 0 {
		return outbound.VideoJobSucceeded
	}
	v.forget(jobID)
	return outbound.VideoJobFailed
}

func (v *veoVideoJob) forget(jobID string) {
	v.mu.Lock()
	delete(v.jobs, jobID)
	v.mu.Unlock()
}
