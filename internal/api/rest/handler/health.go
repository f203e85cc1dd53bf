package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/palemoky/chinese-trainer/internal/errors"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// HealthChecker is the storage side of the health check
type HealthChecker interface {
	Ping(ctx context.Context) error
	GetSchemaVersion() (int, error)
}

// HealthHandler reports whether the database answers, along with the schema
// version and the fingerprint of the dataset being drilled.
func HealthHandler(db HealthChecker, trainer *session.Trainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		version, err := db.GetSchemaVersion()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "schema version unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"schema_version": version,
			"dataset":        trainer.Dataset().Fingerprint,
		})
	}
}

// LibraryCounter reports how many datasets have been imported.
type LibraryCounter interface {
	CountLibrary(ctx context.Context) (int64, error)
}

// ScoreCache is the in-memory layer in front of stored scores
type ScoreCache interface {
	ClearCache()
	GetCacheStats() map[string]int
}

// StatsHandler returns the active dataset summary, the score and the library size.
// cache may be nil.
func StatsHandler(library LibraryCounter, cache ScoreCache, trainer *session.Trainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		imported, err := library.CountLibrary(c.Request.Context())
		if err != nil {
			respondAPIError(c, apierrors.Internal("failed to get statistics"))
			return
		}

		stats := gin.H{
			"dataset":          formatDataset(trainer.Dataset()),
			"progress":         trainer.Progress(),
			"library_datasets": imported,
		}
		if cache != nil {
			stats["cache"] = cache.GetCacheStats()
		}
		c.JSON(http.StatusOK, stats)
	}
}
