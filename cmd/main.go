package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/application/services"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/infrastructure/adapters"
	"podcast-shorts-pipeline/infrastructure/gin_interface/controllers"
	"podcast-shorts-pipeline/middleware"
	mockgenerator "podcast-shorts-pipeline/mock"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	generalPool, err := ants.NewPool(64, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create general worker pool")
	}
	defer generalPool.Release()

	videoPool, err := ants.NewPool(pipelineConfig.VideoWorkers, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create video worker pool")
	}
	defer videoPool.Release()

	audioPool, err := ants.NewPool(pipelineConfig.AudioWorkers, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create audio worker pool")
	}
	defer audioPool.Release()

	mockMode := os.Getenv("PIPELINE_MOCK") == "true"

	var textGenerator outbound.TextGeneratorPort
	var videoJobs outbound.VideoJobPort
	var synthesizer outbound.SpeechSynthesizerPort
	var veoConfig *config.VeoConfig

	if mockMode {
		zeroLogger.Warn("Running with stubbed collaborators, generated media is not playable")
		textGenerator = mockgenerator.NewStubTextGenerator(pipelineConfig.DefaultSnippets)
		videoJobs = mockgenerator.NewStubVideoJob(2)
		synthesizer = mockgenerator.NewStubSynthesizer(100 * time.Millisecond)
		veoConfig = &config.VeoConfig{
			Model:           "stub",
			SubmitTimeout:   5 * time.Second,
			PollTimeout:     5 * time.Second,
			FetchTimeout:    5 * time.Second,
			PollInterval:    100 * time.Millisecond,
			MaxPollDuration: 10 * time.Second,
		}
	} else {
		geminiConfig, err := config.GetGeminiConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get gemini config")
		}

		veoConfig, err = config.GetVeoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get veo config")
		}

		elevenLabsConfig, err := config.GetElevenLabsConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get eleven labs config")
		}

		genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  geminiConfig.ApiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create genai client")
		}

		contentFetcher := adapters.NewContentFetcher(zeroLogger)

		textGenerator = adapters.NewGeminiTextGenerator(zeroLogger, genaiClient, geminiConfig)
		videoJobs = adapters.NewVeoVideoJob(zeroLogger, genaiClient, veoConfig)
		synthesizer = adapters.NewElevenLabsSynthesizer(contentFetcher, elevenLabsConfig)
	}

	var publisher outbound.ArtifactPublisherPort
	var manifestCache outbound.ManifestCachePort

	if os.Getenv("ARTIFACT_BUCKET_NAME") != "" || os.Getenv("MANIFEST_TABLE_NAME") != "" {
		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))

		if os.Getenv("ARTIFACT_BUCKET_NAME") != "" {
			s3Config, err := config.GetS3Config()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to get s3 config")
			}
			publisher = adapters.NewS3ArtifactPublisher(zeroLogger, s3.New(sess), s3Config)
		}

		if os.Getenv("MANIFEST_TABLE_NAME") != "" {
			dynamoConfig, err := config.GetDynamoConfig()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to get dynamo config")
			}
			manifestCache = adapters.NewDynamoManifestCache(zeroLogger, dynamodb.New(sess), dynamoConfig)
		}
	}

	mediaStore := adapters.NewLocalMediaStore(zeroLogger)
	prober := adapters.NewFFprobeDurationProber(zeroLogger)
	videoConcatenator := adapters.NewFFmpegVideoConcatenator(zeroLogger)
	audioConcatenator := adapters.NewFFmpegAudioConcatenator(zeroLogger)
	muxer := adapters.NewFFmpegMuxer(zeroLogger)
	stageTracker := adapters.NewMemoryStageTracker()

	snippetSelector := services.NewSnippetSelector(zeroLogger, textGenerator, pipelineConfig)
	sceneComposer := services.NewSceneComposer(zeroLogger, textGenerator, pipelineConfig)
	clipGenerator := services.NewClipGenerator(zeroLogger, videoJobs, mediaStore, prober, videoPool, veoConfig, pipelineConfig)
	narrationGenerator := services.NewNarrationGenerator(zeroLogger, synthesizer, mediaStore, prober, audioPool, pipelineConfig)
	stitcher := services.NewStitcher(zeroLogger, videoConcatenator, prober, pipelineConfig)
	synchronizer := services.NewSynchronizer(zeroLogger, audioConcatenator, muxer, prober)

	orchestrator := services.NewPipelineOrchestrator(zeroLogger, generalPool, snippetSelector, sceneComposer,
		clipGenerator, narrationGenerator, stitcher, synchronizer, manifestCache, publisher, stageTracker,
		pipelineConfig)

	controller := controllers.NewVideoPipelineController(zeroLogger, snippetSelector, sceneComposer,
		clipGenerator, narrationGenerator, stitcher, synchronizer, orchestrator, stageTracker,
		pipelineConfig.OutputDir)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.Use(cors.Default())

	controller.RegisterRoutes(router, middleware.SSEMiddleware())

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
