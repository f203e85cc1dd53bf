package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// setupTestDB creates a migrated in-memory SQLite database for testing
func setupTestDB(t testing.TB) (*DB, *Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	// Every connection to :memory: opens a fresh database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, NewRepository(db)
}

func libraryEntry(t testing.TB, name string, records []loader.Record) *LibraryDataset {
	t.Helper()
	data, err := EncodeRecords(records)
	require.NoError(t, err)
	return &LibraryDataset{
		Fingerprint: dataset.Fingerprint(records),
		Name:        name,
		Delimiter:   "comma",
		RecordCount: len(records),
		Records:     data,
	}
}

func TestMigrateSchemaVersion(t *testing.T) {
	db, _ := setupTestDB(t)

	version, err := db.GetSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	// Migrating twice must be harmless
	require.NoError(t, db.Migrate())
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	records, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, records, "empty store returns nil")

	sample := dataset.Sample().Records
	require.NoError(t, repo.SaveSnapshot(ctx, sample))

	loaded, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, loaded)
	assert.Equal(t, dataset.Fingerprint(sample), dataset.Fingerprint(loaded))

	// A second save replaces the first
	require.NoError(t, repo.SaveSnapshot(ctx, sample[:1]))
	loaded, err = repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample[:1], loaded)

	var count int64
	require.NoError(t, repo.db.Model(&DatasetSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.ClearSnapshot(ctx))
	loaded, err = repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSnapshotKeepsUnicodeAndQuotes(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	records := []loader.Record{{
		ID:             0,
		Chinese:        "女儿",
		Pinyin:         "nǚ'ér",
		English:        `daughter "girl"`,
		ExampleEnglish: "<b>&</b>",
	}}
	require.NoError(t, repo.SaveSnapshot(ctx, records))

	loaded, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSnapshotKeepsFingerprintOfLegacyEncodings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"gbk", "chinese,english\n\xb4\xf3,big\n", "大"},
		{"gb18030 with bom", "\xEF\xBB\xBFchinese,english\n\xc4\xe3\xba\xc3,hello\n", "你好"},
		{"utf8", "chinese,english\n大,big\n", "大"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, repo := setupTestDB(t)
			ctx := context.Background()

			uploaded, err := dataset.NewService(repo, "").Upload(ctx, []byte(tt.raw))
			require.NoError(t, err)
			require.True(t, uploaded.Persist)
			assert.Equal(t, tt.want, uploaded.Dataset.Records[0].Chinese)

			reloaded, err := dataset.NewService(repo, "").Active(ctx)
			require.NoError(t, err)
			assert.Equal(t, uploaded.Dataset.Records, reloaded.Records)
			assert.Equal(t, uploaded.Dataset.Fingerprint, reloaded.Fingerprint)
		})
	}
}

func TestProgress(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	p, err := repo.LoadProgress(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, session.Progress{}, p)

	require.NoError(t, repo.SaveProgress(ctx, "deadbeef", session.Progress{XP: 30, Streak: 3}))
	require.NoError(t, repo.SaveProgress(ctx, "cafebabe", session.Progress{XP: 10, Streak: 1}))
	require.NoError(t, repo.SaveProgress(ctx, "deadbeef", session.Progress{XP: 40, Streak: 0}))

	p, err = repo.LoadProgress(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, session.Progress{XP: 40, Streak: 0}, p)

	p, err = repo.LoadProgress(ctx, "cafebabe")
	require.NoError(t, err)
	assert.Equal(t, session.Progress{XP: 10, Streak: 1}, p)
}

func TestLibrary(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	sample := dataset.Sample().Records
	first := libraryEntry(t, "sample.csv", sample)
	second := libraryEntry(t, "single.csv", sample[:1])
	duplicate := libraryEntry(t, "copy-of-sample.csv", sample)

	require.NoError(t, repo.BatchInsertLibrary([]*LibraryDataset{first, second}, 10))
	require.NoError(t, repo.BatchInsertLibrary([]*LibraryDataset{duplicate}, 10))
	require.NoError(t, repo.BatchInsertLibrary(nil, 10))

	count, err := repo.CountLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := repo.ListLibrary(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	names := []string{list[0].Name, list[1].Name}
	assert.ElementsMatch(t, []string{"sample.csv", "single.csv"}, names)
	for _, d := range list {
		assert.Empty(t, d.Records, "list omits the records payload")
	}

	got, err := repo.GetLibraryDataset(ctx, first.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "sample.csv", got.Name)
	assert.Equal(t, 2, got.RecordCount)
	records, err := got.DecodeRecords()
	require.NoError(t, err)
	assert.Equal(t, sample, records)

	_, err = repo.GetLibraryDataset(ctx, "00000000")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.DeleteLibraryDataset(ctx, second.Fingerprint))
	err = repo.DeleteLibraryDataset(ctx, "00000000")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	count, err = repo.CountLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertLibraryDataset(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	entry := libraryEntry(t, "old.csv", dataset.Sample().Records)
	require.NoError(t, repo.UpsertLibraryDataset(ctx, entry))

	renamed := libraryEntry(t, "new.csv", dataset.Sample().Records)
	renamed.Path = "/data/new.csv"
	require.NoError(t, repo.UpsertLibraryDataset(ctx, renamed))

	got, err := repo.GetLibraryDataset(ctx, entry.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "new.csv", got.Name)
	assert.Equal(t, "/data/new.csv", got.Path)
}

func TestRepositorySatisfiesStores(t *testing.T) {
	_, repo := setupTestDB(t)

	var _ RepositoryInterface = repo
	var _ dataset.SnapshotStore = NewCachedRepository(repo)
	var _ session.ScoreStore = NewCachedRepository(repo)
}

func TestRecordCodec(t *testing.T) {
	data, err := EncodeRecords(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	records, err := DecodeRecords(nil)
	require.NoError(t, err)
	assert.Nil(t, records)

	_, err = DecodeRecords([]byte("{not json"))
	assert.Error(t, err)
}
