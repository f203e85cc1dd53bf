package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-trainer/internal/api/middleware"
	"github.com/palemoky/chinese-trainer/internal/api/rest/handler"
	"github.com/palemoky/chinese-trainer/internal/audio"
	"github.com/palemoky/chinese-trainer/internal/config"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/graph"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// Deps are the services the routes operate on. Scores and Speaker may be nil.
type Deps struct {
	DB      *database.DB
	Repo    database.RepositoryInterface
	Scores  handler.ScoreCache
	Service *dataset.Service
	Trainer *session.Trainer
	Speaker audio.Speaker
}

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(middleware.CORS())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		rateLimiter.SetIdleTimeout(cfg.RateLimit.IdleTimeout)
		router.Use(rateLimiter.Middleware())
	}

	speaker := deps.Speaker
	if speaker == nil {
		speaker = audio.NopSpeaker{}
	}

	// GraphQL
	graphqlHandler := handler.GraphQLHandler(graph.NewExecutor(graph.NewResolver(deps.Trainer, deps.Repo)))
	router.POST("/graphql", graphqlHandler)
	router.GET("/graphql", graphqlHandler)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(deps.DB, deps.Trainer))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(deps.Repo, deps.Scores, deps.Trainer))

		// Active dataset
		datasetHandler := handler.NewDatasetHandler(deps.Service, deps.Trainer, cfg.Dataset.MaxUploadBytes)
		if deps.Scores != nil {
			datasetHandler.SetScoreCache(deps.Scores)
		}
		v1.GET("/dataset", datasetHandler.GetDataset)
		v1.POST("/dataset", datasetHandler.UploadDataset)
		v1.DELETE("/dataset", datasetHandler.ResetDataset)
		v1.GET("/dataset/records", datasetHandler.ListRecords)

		// Imported datasets
		libraryHandler := handler.NewLibraryHandler(deps.Repo, deps.Service, deps.Trainer)
		v1.GET("/library", libraryHandler.ListLibrary)
		v1.DELETE("/library/:fingerprint", libraryHandler.DeleteDataset)
		v1.POST("/library/:fingerprint/activate", libraryHandler.ActivateDataset)

		// Lessons
		lessonHandler := handler.NewLessonHandler(deps.Trainer, speaker, cfg.Lesson.DefaultCount)
		v1.POST("/lessons", lessonHandler.StartLesson)
		v1.POST("/lessons/sprint", lessonHandler.StartSprint)
		v1.GET("/lessons/current", lessonHandler.CurrentLesson)
		v1.POST("/lessons/current/answer", lessonHandler.AnswerExercise)
		v1.POST("/lessons/current/skip", lessonHandler.SkipExercise)
		v1.POST("/lessons/current/next", lessonHandler.NextExercise)
		v1.GET("/progress", lessonHandler.GetProgress)

		// Input helpers
		v1.POST("/tone", handler.ApplyTone)
		v1.POST("/speak", handler.SpeakHandler(speaker))
	}

	return router
}
