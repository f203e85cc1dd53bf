package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// RepositoryInterface defines the interface for repository operations
type RepositoryInterface interface {
	dataset.SnapshotStore
	session.ScoreStore

	UpsertLibraryDataset(ctx context.Context, d *LibraryDataset) error
	BatchInsertLibrary(datasets []*LibraryDataset, batchSize int) error
	ListLibrary(ctx context.Context) ([]LibraryDataset, error)
	GetLibraryDataset(ctx context.Context, fingerprint string) (*LibraryDataset, error)
	DeleteLibraryDataset(ctx context.Context, fingerprint string) error
	CountLibrary(ctx context.Context) (int64, error)
}

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// LoadSnapshot returns the stored upload, or nil when none is stored
func (r *Repository) LoadSnapshot(ctx context.Context) ([]loader.Record, error) {
	var snap DatasetSnapshot
	err := r.db.WithContext(ctx).Where("slot = ?", DefaultSlot).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return DecodeRecords(snap.Records)
}

// SaveSnapshot replaces the stored upload
func (r *Repository) SaveSnapshot(ctx context.Context, records []loader.Record) error {
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}

	snap := DatasetSnapshot{
		Slot:        DefaultSlot,
		Fingerprint: dataset.Fingerprint(records),
		RecordCount: len(records),
		Records:     data,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"fingerprint", "record_count", "records", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ClearSnapshot forgets the stored upload
func (r *Repository) ClearSnapshot(ctx context.Context) error {
	err := r.db.WithContext(ctx).Where("slot = ?", DefaultSlot).Delete(&DatasetSnapshot{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// LoadProgress returns the score for a fingerprint, zero when unknown
func (r *Repository) LoadProgress(ctx context.Context, fingerprint string) (session.Progress, error) {
	var rec ProgressRecord
	err := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Progress{}, nil
	}
	if err != nil {
		return session.Progress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return session.Progress{XP: rec.XP, Streak: rec.Streak}, nil
}

// SaveProgress upserts the score for a fingerprint
func (r *Repository) SaveProgress(ctx context.Context, fingerprint string, p session.Progress) error {
	rec := ProgressRecord{Fingerprint: fingerprint, XP: p.XP, Streak: p.Streak}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{"xp", "streak", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
