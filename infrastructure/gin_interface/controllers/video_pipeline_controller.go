package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"podcast-shorts-pipeline/application/ports/inbound"
	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/domain"
	"podcast-shorts-pipeline/infrastructure/gin_interface/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VideoPipelineController interface {
	ExtractSnippets(c *gin.Context)
	ComposeScenes(c *gin.Context)
	GenerateClips(c *gin.Context)
	GenerateNarration(c *gin.Context)
	Stitch(c *gin.Context)
	Sync(c *gin.Context)
	Generate(c *gin.Context)
	Progress(c *gin.Context)
	RegisterRoutes(g *gin.Engine, sse gin.HandlerFunc)
}

type videoPipelineController struct {
	logger             outbound.LoggerPort
	snippetSelector    inbound.SnippetSelectorPort
	sceneComposer      inbound.SceneComposerPort
	clipGenerator      inbound.ClipGeneratorPort
	narrationGenerator inbound.NarrationGeneratorPort
	stitcher           inbound.StitcherPort
	synchronizer       inbound.SynchronizerPort
	orchestrator       inbound.PipelineOrchestratorPort
	stageTracker       outbound.StageTrackerPort
	outputDir          string
}

func NewVideoPipelineController(
	logger outbound.LoggerPort,
	snippetSelector inbound.SnippetSelectorPort,
	sceneComposer inbound.SceneComposerPort,
	clipGenerator inbound.ClipGeneratorPort,
	narrationGenerator inbound.NarrationGeneratorPort,
	stitcher inbound.StitcherPort,
	synchronizer inbound.SynchronizerPort,
	orchestrator inbound.PipelineOrchestratorPort,
	stageTracker outbound.StageTrackerPort,
	outputDir string,
) VideoPipelineController {
	return &videoPipelineController{
		logger:             logger,
		snippetSelector:    snippetSelector,
		sceneComposer:      sceneComposer,
		clipGenerator:      clipGenerator,
		narrationGenerator: narrationGenerator,
		stitcher:           stitcher,
		synchronizer:       synchronizer,
		orchestrator:       orchestrator,
		stageTracker:       stageTracker,
		outputDir:          outputDir,
	}
}

func (v *videoPipelineController) ExtractSnippets(c *gin.Context) {
	var req dto.ExtractSnippetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	snippets, err := v.snippetSelector.Select(newCtx, inbound.SelectSnippetsParams{
		Transcript:  req.Transcript.ToDomain(),
		MaxSnippets: req.MaxSnippets,
	})
	if err != nil {
		v.abort(c, 500, err)
		return
	}

	c.JSON(200, dto.SnippetsResponse{Snippets: snippets, TotalSnippets: len(snippets)})
}

func (v *videoPipelineController) ComposeScenes(c *gin.Context) {
	var req dto.ComposeScenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	scenes, err := v.sceneComposer.Compose(newCtx, req.Snippets)
	if err != nil {
		v.abort(c, 500, err)
		return
	}

	var total float64
	for _, s := range scenes {
		total += s.Duration
	}

	c.JSON(200, dto.ScenesResponse{Scenes: scenes, TotalDuration: total})
}

func (v *videoPipelineController) GenerateClips(c *gin.Context) {
	var req dto.GenerateClipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	clipCh, errCh := v.clipGenerator.Generate(newCtx, feedScenes(req.Scenes), filepath.Join(v.outputDir, runID))

	clips := make([]domain.VideoClip, 0, len(req.Scenes))
	var failed []int
	var fatal error
	for clipCh != nil || errCh != nil {
		select {
		case clip, ok := <-clipCh:
			if !ok {
				clipCh = nil
				continue
			}
			clips = append(clips, clip)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			var sceneErr *domain.SceneGenerationFailure
			if errors.As(err, &sceneErr) {
				failed = append(failed, sceneErr.SceneNumber)
				continue
			}
			if fatal == nil {
				fatal = err
				cancel()
			}
		}
	}
	if fatal != nil {
		v.abort(c, 500, fatal)
		return
	}

	var total float64
	for _, clip := range clips {
		total += clip.Duration
	}

	c.JSON(200, dto.ClipsResponse{RunID: runID, Clips: clips, TotalDuration: total, FailedScenes: failed})
}

func (v *videoPipelineController) GenerateNarration(c *gin.Context) {
	var req dto.GenerateNarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	audioCh, errCh := v.narrationGenerator.Generate(newCtx, feedScenes(req.Scenes), req.VoiceID, filepath.Join(v.outputDir, runID))

	clips := make([]domain.AudioClip, 0, len(req.Scenes))
	var failed []int
	var fatal error
	for audioCh != nil || errCh != nil {
		select {
		case clip, ok := <-audioCh:
			if !ok {
				audioCh = nil
				continue
			}
			clips = append(clips, clip)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			var sceneErr *domain.SceneGenerationFailure
			if errors.As(err, &sceneErr) {
				failed = append(failed, sceneErr.SceneNumber)
				continue
			}
			if fatal == nil {
				fatal = err
				cancel()
			}
		}
	}
	if fatal != nil {
		v.abort(c, 500, fatal)
		return
	}

	var total float64
	for _, clip := range clips {
		total += clip.Duration
	}

	c.JSON(200, dto.NarrationResponse{RunID: runID, AudioClips: clips, TotalDuration: total, FailedScenes: failed})
}

func (v *videoPipelineController) Stitch(c *gin.Context) {
	var req dto.StitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	stitched, err := v.stitcher.Stitch(newCtx, req.Clips, filepath.Join(v.outputDir, runID))
	if err != nil {
		v.abort(c, 500, err)
		return
	}

	c.JSON(200, dto.StitchResponse{RunID: runID, StitchedVideo: *stitched})
}

func (v *videoPipelineController) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	final, err := v.synchronizer.Sync(newCtx, req.Stitched, req.AudioClips, filepath.Join(v.outputDir, runID))
	if err != nil {
		v.abort(c, 500, err)
		return
	}

	c.JSON(200, dto.SyncResponse{RunID: runID, FinalVideo: *final})
}

func (v *videoPipelineController) Generate(c *gin.Context) {
	var req dto.GeneratePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		v.abort(c, 400, err)
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	runID := uuid.NewString()

	manifest, err := v.orchestrator.Run(newCtx, inbound.RunPipelineParams{
		RunID:       runID,
		Transcript:  req.Transcript.ToDomain(),
		MaxSnippets: req.MaxSnippets,
		VoiceID:     req.VoiceID,
	})
	if err != nil {
		var pipelineErr *domain.PipelineError
		if errors.As(err, &pipelineErr) {
			v.logger.ErrorWithFields(err, "pipeline run failed", map[string]interface{}{
				"run_id": runID,
				"stage":  pipelineErr.Stage,
			})
			c.JSON(500, dto.PipelineErrorResponse{
				Stage:    pipelineErr.Stage,
				Error:    pipelineErr.Err.Error(),
				Manifest: pipelineErr.Manifest,
			})
			return
		}
		v.abort(c, 500, err)
		return
	}

	c.JSON(200, dto.PipelineResponse{Manifest: *manifest})
}

// Progress streams the run's stage as server-sent events until the run
// reaches a terminal stage or the client disconnects.
func (v *videoPipelineController) Progress(c *gin.Context) {
	runID := c.Param("run_id")

	stage, ok := v.stageTracker.Get(runID)
	if !ok {
		c.JSON(404, dto.ErrorResponse{Error: "unknown run " + runID})
		return
	}

	clientGone := c.Request.Context().Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	if !v.writeProgress(c, runID, stage) {
		return
	}

	for {
		select {
		case <-ticker.C:
			next, ok := v.stageTracker.Get(runID)
			if !ok {
				return
			}
			if next != stage {
				stage = next
				if !v.writeProgress(c, runID, stage) {
					return
				}
			}
			if stage == domain.StageDone || stage == domain.StageFailed {
				return
			}
		case <-clientGone:
			return
		}
	}
}

func (v *videoPipelineController) writeProgress(c *gin.Context, runID string, stage domain.Stage) bool {
	payload, err := json.Marshal(dto.ProgressEvent{RunID: runID, Stage: stage})
	if err != nil {
		v.logger.Error(err, "failed to marshal progress event")
		return false
	}
	if _, err := c.Writer.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}

func (v *videoPipelineController) RegisterRoutes(g *gin.Engine, sse gin.HandlerFunc) {
	api := g.Group("/api/v1/video")
	api.POST("/snippets", v.ExtractSnippets)
	api.POST("/scenes", v.ComposeScenes)
	api.POST("/clips", v.GenerateClips)
	api.POST("/narration", v.GenerateNarration)
	api.POST("/stitch", v.Stitch)
	api.POST("/sync", v.Sync)
	api.POST("/generate", v.Generate)
	api.GET("/progress/:run_id", sse, v.Progress)
}

func (v *videoPipelineController) abort(c *gin.Context, status int, err error) {
	if abortErr := c.AbortWithError(status, err); abortErr != nil {
		v.logger.Error(abortErr, "failed to abort with error")
	}
}

func feedScenes(scenes []domain.SceneDescription) <-chan domain.SceneDescription {
	out := make(chan domain.SceneDescription, len(scenes))
	for _, scene := range scenes {
		out <- scene
	}
	close(out)
	return out
}
