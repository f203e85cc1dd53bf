// Package testutil provides shared utilities for testing.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t testing.TB) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// A second pooled connection would see an empty database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, database.NewRepository(db)
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// Records returns a small fixed vocabulary with every field populated.
func Records() []loader.Record {
	return []loader.Record{
		{ID: 0, Chinese: "大", Pinyin: "dà", English: "big", Type: "Adjective", Example: "这个苹果很大。", ExamplePinyin: "zhè ge píng guǒ hěn dà", ExampleEnglish: "This apple is very big."},
		{ID: 1, Chinese: "小", Pinyin: "xiǎo", English: "small", Type: "Adjective", Example: "我的狗很小。", ExamplePinyin: "wǒ de gǒu hěn xiǎo", ExampleEnglish: "My dog is small."},
		{ID: 2, Chinese: "吃", Pinyin: "chī", English: "eat", Type: "Verb", Example: "我想吃饭。", ExamplePinyin: "wǒ xiǎng chī fàn", ExampleEnglish: "I want to eat."},
		{ID: 3, Chinese: "朋友", Pinyin: "péng you", English: "friend", Type: "Noun", Example: "他是我的朋友。", ExamplePinyin: "tā shì wǒ de péng you", ExampleEnglish: "He is my friend."},
	}
}
