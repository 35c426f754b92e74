package outbound

import "podcast-shorts-pipeline/domain"

// StageTrackerPort records the current stage of each run for progress
// reporting.
type StageTrackerPort interface {
	Set(runID string, stage domain.Stage)
	Get(runID string) (domain.Stage, bool)
}
