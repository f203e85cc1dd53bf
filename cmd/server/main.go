package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/api/rest"
	"github.com/palemoky/chinese-trainer/internal/audio"
	"github.com/palemoky/chinese-trainer/internal/config"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// newSpeaker builds the configured speech backend. The returned cleanup
// waits for pending syntheses and closes the API client.
func newSpeaker(ctx context.Context, cfg config.AudioConfig) (audio.Speaker, func(), error) {
	provider, err := audio.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}

	switch provider {
	case audio.ProviderGCP:
		synth, err := audio.NewCloudSynthesizer(ctx)
		if err != nil {
			return nil, nil, err
		}
		speaker := audio.NewGCPSpeaker(synth, audio.GCPConfig{
			CacheDir:     cfg.CacheDir,
			LanguageCode: cfg.LanguageCode,
			VoiceName:    cfg.VoiceName,
		})
		return speaker, func() {
			speaker.Wait()
			_ = synth.Close()
		}, nil
	default:
		return audio.NopSpeaker{}, func() {}, nil
	}
}

func main() {
	// .env must be applied before anything reads the environment
	dotEnvErr := config.LoadDotEnv("")

	// Initialize logger
	debug := os.Getenv("GIN_MODE") != "release"
	logger.Init(debug)
	defer logger.Sync()

	if dotEnvErr != nil {
		logger.Warn("Ignoring .env file", zap.Error(dotEnvErr))
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logger.Warn("Failed to load config file, using defaults", zap.Error(err))
		cfg, err = config.Load("")
		if err != nil {
			logger.Fatal("Invalid configuration", zap.Error(err))
		}
	}

	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warn("Ignoring log level", zap.Error(err))
	}

	logger.Info("Starting Chinese trainer server",
		zap.String("database", cfg.Database.Path),
		zap.Int("port", cfg.Server.Port),
		zap.String("default_file", cfg.Dataset.DefaultFile),
		zap.String("audio", cfg.Audio.Provider),
	)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	repo := database.NewRepository(db)
	scores := database.NewCachedRepository(repo)

	service := dataset.NewService(repo, cfg.Dataset.DefaultFile)
	trainer := session.NewTrainer(scores, answer.Matcher{AcceptVariantScript: cfg.Matching.AcceptVariantScript}, nil)

	ctx := context.Background()
	active, err := service.Active(ctx)
	if err != nil {
		logger.Fatal("Failed to resolve active dataset", zap.Error(err))
	}
	trainer.SetDataset(ctx, active)
	logger.Info("Active dataset",
		zap.String("source", string(active.Source)),
		zap.String("fingerprint", active.Fingerprint),
		zap.Int("records", active.Len()),
	)

	speaker, closeSpeaker, err := newSpeaker(ctx, cfg.Audio)
	if err != nil {
		logger.Warn("Speech disabled", zap.Error(err))
		speaker, closeSpeaker = audio.NopSpeaker{}, func() {}
	}
	defer closeSpeaker()

	// Setup Gin router
	router := rest.SetupRouter(cfg, rest.Deps{
		DB:      db,
		Repo:    repo,
		Scores:  scores,
		Service: service,
		Trainer: trainer,
		Speaker: speaker,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
			zap.String("graphql", fmt.Sprintf("http://localhost:%d/graphql", cfg.Server.Port)),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
