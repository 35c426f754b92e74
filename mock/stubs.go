package mock_generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/domain"

	"github.com/google/uuid"
)

// StubTextGenerator answers snippet and scene prompts with canned JSON so
// the pipeline can run without a Gemini key. It keys off the response
// schema embedded in the prompt.
type StubTextGenerator struct {
	SceneCount int
}

func NewStubTextGenerator(sceneCount int) *StubTextGenerator {
	if sceneCount <= 0 {
		sceneCount = 3
	}
	return &StubTextGenerator{SceneCount: sceneCount}
}

func (s *StubTextGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, `"scenes"`) {
		return s.cannedScenes(), nil
	}
	return s.cannedSnippets(), nil
}

func (s *StubTextGenerator) cannedSnippets() string {
	snippets := make([]domain.Snippet, 0, s.SceneCount)
	for i := 0; i < s.SceneCount; i++ {
		start := float64(i * 30)
		end := start + 8
		snippets = append(snippets, domain.Snippet{
			Text:      fmt.Sprintf("Placeholder insight number %d from the conversation.", i+1),
			StartTime: &start,
			EndTime:   &end,
			Context:   "stubbed for local development",
			Reason:    "canned response",
		})
	}
	payload, _ := json.Marshal(map[string]interface{}{"snippets": snippets})
	return string(payload)
}

func (s *StubTextGenerator) cannedScenes() string {
	scenes := make([]domain.SceneDescription, 0, s.SceneCount)
	for i := 0; i < s.SceneCount; i++ {
		scenes = append(scenes, domain.SceneDescription{
			SceneNumber:    i + 1,
			TranscriptText: fmt.Sprintf("Placeholder insight number %d from the conversation.", i+1),
			VisualPrompt:   fmt.Sprintf("Abstract gradient background, slow camera push, scene %d.", i+1),
			Duration:       8,
			StartTime:      float64(i * 30),
		})
	}
	payload, _ := json.Marshal(map[string]interface{}{"scenes": scenes})
	return string(payload)
}

// StubVideoJob resolves every job as succeeded after a fixed number of
// polls. Fetched bytes are a placeholder, not a playable clip, so runs in
// mock mode stop making sense once ffmpeg enters the picture.
type StubVideoJob struct {
	PollsUntilDone int

	mu    sync.Mutex
	polls map[string]int
}

func NewStubVideoJob(pollsUntilDone int) *StubVideoJob {
	if pollsUntilDone <= 0 {
		pollsUntilDone = 2
	}
	return &StubVideoJob{PollsUntilDone: pollsUntilDone, polls: make(map[string]int)}
}

func (s *StubVideoJob) Submit(_ context.Context, _ outbound.SubmitVideoJobRequest) (string, error) {
	jobID := uuid.NewString()
	s.mu.Lock()
	s.polls[jobID] = 0
	s.mu.Unlock()
	return jobID, nil
}

func (s *StubVideoJob) Poll(_ context.Context, jobID string) (outbound.VideoJobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, ok := s.polls[jobID]
	if !ok {
		return outbound.VideoJobFailed, fmt.Errorf("unknown job %s", jobID)
	}
	count++
	s.polls[jobID] = count
	if count < s.PollsUntilDone {
		return outbound.VideoJobRunning, nil
	}
	return outbound.VideoJobSucceeded, nil
}

func (s *StubVideoJob) Fetch(_ context.Context, jobID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[jobID]; !ok {
		return nil, fmt.Errorf("unknown job %s", jobID)
	}
	delete(s.polls, jobID)
	return []byte("stub video " + jobID), nil
}

// StubSynthesizer returns placeholder audio bytes after a short delay that
// imitates a synthesis round trip.
type StubSynthesizer struct {
	Delay time.Duration
}

func NewStubSynthesizer(delay time.Duration) *StubSynthesizer {
	return &StubSynthesizer{Delay: delay}
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []byte("stub audio " + req.Text), nil
}
