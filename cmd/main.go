package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/application/services"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/infrastructure/adapters"
	"github.com/mzkki25/ai-video-automation/infrastructure/gin_interface/controllers"
	"github.com/mzkki25/ai-video-automation/middleware"
	"github.com/mzkki25/ai-video-automation/mock"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	zeroLogger := adapters.NewZerologWrapper()

	workflowConfig, err := config.GetWorkflowConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get workflow config")
	}

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	var (
		store           outbound.WorkflowStorePort
		scriptGenerator outbound.ScriptGeneratorPort
		avatarVideos    outbound.AvatarVideoPort
		imageGenerator  outbound.ImageGeneratorPort
		composer        outbound.CompositionPort
		merger          outbound.VideoMergerPort
		publisher       outbound.VideoPublisherPort
	)

	if os.Getenv("MOCK_PROVIDERS") == "true" {
		zeroLogger.Warn("MOCK_PROVIDERS enabled: using in-process fake providers")
		storyboard := mock.SampleStoryboard()
		store = mock.NewMemoryWorkflowStore(24 * time.Hour)
		scriptGenerator = &mock.ScriptGeneratorStub{Script: storyboard}
		avatarVideos = &mock.AvatarRendererStub{Storyboard: storyboard, ReadyAfter: 2}
		imageGenerator = &mock.ImageGeneratorStub{Storyboard: storyboard}
		composer = &mock.CompositionStub{ReadyAfter: 2}
		merger = &mock.VideoMergerStub{}
		publisher = &mock.VideoPublisherStub{}
	} else {
		scriptConfig, err := config.GetScriptConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get script config")
		}
		heygenConfig, err := config.GetHeygenConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get heygen config")
		}
		imageConfig, err := config.GetImageConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get image config")
		}
		creatomateConfig, err := config.GetCreatomateConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get creatomate config")
		}
		s3Config, err := config.GetS3Config()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get s3 config")
		}
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}

		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))

		store = adapters.NewDynamoWorkflowStore(zeroLogger, dynamodb.New(sess), dynamoConfig)
		publisher = adapters.NewS3VideoPublisher(zeroLogger, s3.New(sess), s3Config)
		scriptGenerator = adapters.NewScriptGenerator(contentFetcher, scriptConfig, zeroLogger)
		avatarVideos = adapters.NewHeygenVideoRenderer(contentFetcher, heygenConfig, zeroLogger)
		imageGenerator = adapters.NewGeminiImageGenerator(contentFetcher, imageConfig, publisher, zeroLogger)
		composer = adapters.NewCreatomateComposer(contentFetcher, creatomateConfig, zeroLogger)
		merger = adapters.NewFFmpegVideoMerger(contentFetcher, zeroLogger)
	}

	orchestrator := services.NewWorkflowOrchestrator(zeroLogger, store, workerPool,
		scriptGenerator, avatarVideos, imageGenerator, composer, merger, publisher, workflowConfig)

	workflowController := controllers.NewVideoWorkflowController(zeroLogger, workerPool, orchestrator)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zeroLogger))

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	workflowController.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
