package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ContentGenerationError reports malformed or empty output from the
// text-generation collaborator after the reparse attempt was spent.
type ContentGenerationError struct {
	Msg string
	Err error
}

func (e *ContentGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content generation: %s: %v", e.Msg, e.Err)
	}
	return "content generation: " + e.Msg
}

func (e *ContentGenerationError) Unwrap() error { return e.Err }

// TransientServiceError marks a collaborator failure worth retrying
// (network errors, quota exhaustion, 5xx responses).
type TransientServiceError struct {
	Err error
}

func (e *TransientServiceError) Error() string {
	return "transient service error: " + e.Err.Error()
}

func (e *TransientServiceError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var t *TransientServiceError
	return errors.As(err, &t)
}

// SceneGenerationFailure is a single scene's clip or narration exhausting
// its retry budget. The orchestrator decides whether it aborts the run.
type SceneGenerationFailure struct {
	SceneNumber int
	Medium      string // "video" or "audio"
	Err         error
}

func (e *SceneGenerationFailure) Error() string {
	return fmt.Sprintf("scene %d %s generation failed: %v", e.SceneNumber, e.Medium, e.Err)
}

func (e *SceneGenerationFailure) Unwrap() error { return e.Err }

// AssemblyError means the clips could not be concatenated.
type AssemblyError struct {
	Msg string
	Err error
}

func (e *AssemblyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assembly: %s: %v", e.Msg, e.Err)
	}
	return "assembly: " + e.Msg
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// SyncError means the narration track could not be merged onto the video.
type SyncError struct {
	Msg string
	Err error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync: %s: %v", e.Msg, e.Err)
	}
	return "sync: " + e.Msg
}

func (e *SyncError) Unwrap() error { return e.Err }

// PipelineError wraps a stage failure together with the partial manifest
// accumulated so far, so a caller can inspect completed work and retry
// from the failing stage.
type PipelineError struct {
	Stage    Stage
	Manifest *Manifest
	Err      error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// FailedScenes formats scene failures into a single error, listing the
// affected scene numbers.
func FailedScenes(failures []*SceneGenerationFailure) error {
	if len(failures) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}
