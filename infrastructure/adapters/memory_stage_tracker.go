package adapters

import (
	"sync"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/domain"
)

type memoryStageTracker struct {
	mu     sync.RWMutex
	stages map[string]domain.Stage
}

func NewMemoryStageTracker() outbound.StageTrackerPort {
	return &memoryStageTracker{
		stages: make(map[string]domain.Stage),
	}
}

func (t *memoryStageTracker) Set(runID string, stage domain.Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages[runID] = stage
}

func (t *memoryStageTracker) Get(runID string) (domain.Stage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	stage, ok := t.stages[runID]
	return stage, ok
}
