package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

func testPipelineConfig(outputDir string) *config.PipelineConfig {
	return &config.PipelineConfig{
		OutputDir:        outputDir,
		MaxSceneDuration: 8,
		DefaultSnippets:  5,
		TargetFPS:        30,
		VideoWorkers:     4,
		AudioWorkers:     4,
		VideoMaxAttempts: 3,
		AudioMaxAttempts: 2,
		VideoBackoffBase: 1,
		AudioBackoffBase: 1,
	}
}

func testVeoConfig() *config.VeoConfig {
	return &config.VeoConfig{
		Model:           "test-model",
		SubmitTimeout:   1e9,
		PollTimeout:     1e9,
		FetchTimeout:    1e9,
		PollInterval:    1,
		MaxPollDuration: 1e9,
	}
}

type fakeTextGenerator struct {
	mu        sync.Mutex
	responses []string
	calls     []string
	err       error
}

func (f *fakeTextGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no canned response left")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

// promptRouter answers snippet and scene prompts with canned JSON, keyed
// off the response schema embedded in the prompt.
type promptRouter struct {
	snippetsJSON string
	scenesJSON   string
}

func (f *promptRouter) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, `"scenes"`) {
		return f.scenesJSON, nil
	}
	return f.snippetsJSON, nil
}

type videoJobState struct {
	prompt string
	polls  int
}

type fakeVideoJobs struct {
	mu sync.Mutex

	pollsUntilDone     int
	failSubstring      string
	transientSubstring string
	transientFails     int
	submitDelay        time.Duration

	transientCount map[string]int
	submits        []outbound.SubmitVideoJobRequest
	jobs           map[string]*videoJobState
	nextID         int
}

func (f *fakeVideoJobs) Submit(_ context.Context, req outbound.SubmitVideoJobRequest) (string, error) {
	// Deliberately ignores the context, like a stalled remote call.
	if f.submitDelay > 0 {
		time.Sleep(f.submitDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)

	if f.failSubstring != "" && strings.Contains(req.Prompt, f.failSubstring) {
		return "", errors.New("prompt rejected")
	}
	if f.transientSubstring != "" && strings.Contains(req.Prompt, f.transientSubstring) {
		if f.transientCount == nil {
			f.transientCount = make(map[string]int)
		}
		if f.transientCount[f.transientSubstring] < f.transientFails {
			f.transientCount[f.transientSubstring]++
			return "", &domain.TransientServiceError{Err: errors.New("service overloaded")}
		}
	}

	if f.jobs == nil {
		f.jobs = make(map[string]*videoJobState)
	}
	f.nextID++
	jobID := fmt.Sprintf("job-%d", f.nextID)
	f.jobs[jobID] = &videoJobState{prompt: req.Prompt}
	return jobID, nil
}

func (f *fakeVideoJobs) Poll(_ context.Context, jobID string) (outbound.VideoJobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return outbound.VideoJobFailed, fmt.Errorf("unknown job %s", jobID)
	}
	job.polls++
	if job.polls >= f.pollsUntilDone {
		return outbound.VideoJobSucceeded, nil
	}
	return outbound.VideoJobRunning, nil
}

func (f *fakeVideoJobs) Fetch(_ context.Context, jobID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("unknown job %s", jobID)
	}
	return []byte("video " + job.prompt), nil
}

type fakeSynthesizer struct {
	mu sync.Mutex

	failText       string
	transientText  string
	transientFails int
	transientCount int
	synthDelay     time.Duration
	requests       []outbound.SynthesizeRequest
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	// Deliberately ignores the context, like a stalled remote call.
	if f.synthDelay > 0 {
		time.Sleep(f.synthDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	if f.failText != "" && strings.Contains(req.Text, f.failText) {
		return nil, errors.New("text rejected")
	}
	if f.transientText != "" && strings.Contains(req.Text, f.transientText) && f.transientCount < f.transientFails {
		f.transientCount++
		return nil, &domain.TransientServiceError{Err: errors.New("synthesis overloaded")}
	}
	return []byte("audio " + req.Text), nil
}

type memMediaStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemMediaStore() *memMediaStore {
	return &memMediaStore{files: make(map[string][]byte)}
}

func (m *memMediaStore) Write(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *memMediaStore) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

type fakeProber struct {
	mu              sync.Mutex
	durations       map[string]float64
	defaultDuration float64
	err             error
}

func (f *fakeProber) Probe(_ context.Context, path string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if d, ok := f.durations[path]; ok {
		return d, nil
	}
	return f.defaultDuration, nil
}

type videoConcatCall struct {
	inputs   []string
	output   string
	reencode bool
}

type fakeVideoConcatenator struct {
	mu           sync.Mutex
	calls        []videoConcatCall
	failLossless bool
	failAll      bool
}

func (f *fakeVideoConcatenator) Concatenate(_ context.Context, inputPaths []string, outputPath string, reencode bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, videoConcatCall{inputs: inputPaths, output: outputPath, reencode: reencode})
	if f.failAll {
		return errors.New("concat failed")
	}
	if f.failLossless && !reencode {
		return errors.New("stream copy failed")
	}
	return os.WriteFile(outputPath, []byte("stitched"), 0o644)
}

type fakeAudioConcatenator struct {
	mu     sync.Mutex
	inputs []string
	fail   bool
}

func (f *fakeAudioConcatenator) Concatenate(_ context.Context, inputPaths []string, outputPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = inputPaths
	if f.fail {
		return errors.New("audio concat failed")
	}
	return os.WriteFile(outputPath, []byte("narration"), 0o644)
}

type muxCall struct {
	videoPath      string
	audioPath      string
	outputPath     string
	targetDuration float64
}

type fakeMuxer struct {
	mu    sync.Mutex
	calls []muxCall
	fail  bool
}

func (f *fakeMuxer) Mux(_ context.Context, videoPath, audioPath, outputPath string, targetDuration float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, muxCall{videoPath: videoPath, audioPath: audioPath, outputPath: outputPath, targetDuration: targetDuration})
	if f.fail {
		return errors.New("mux failed")
	}
	return os.WriteFile(outputPath, []byte("final"), 0o644)
}

type snapshot struct {
	stage domain.Stage
	runID string
}

type fakeManifestCache struct {
	mu        sync.Mutex
	snapshots []snapshot
}

func (f *fakeManifestCache) Save(_ context.Context, stage domain.Stage, manifest *domain.Manifest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snapshot{stage: stage, runID: manifest.RunID})
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	requests []outbound.PublishArtifactRequest
}

func (f *fakePublisher) Publish(_ context.Context, req outbound.PublishArtifactRequest) (*outbound.PublishArtifactResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &outbound.PublishArtifactResponse{ArtifactKey: "run/" + req.RunID + "/video/final.mp4", StoreRegion: "eu-west-1"}, nil
}
