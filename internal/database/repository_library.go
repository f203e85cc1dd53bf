package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/chinese-trainer/internal/logger"
)

// libraryColumns lists every column except the records payload
var libraryColumns = []string{"fingerprint", "name", "path", "delimiter", "record_count", "created_at"}

// UpsertLibraryDataset inserts a dataset or refreshes its name and path
func (r *Repository) UpsertLibraryDataset(ctx context.Context, d *LibraryDataset) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "path"}),
	}).Create(d).Error
}

// BatchInsertLibrary inserts datasets in one transaction.
// Datasets whose fingerprint is already stored are skipped (ON CONFLICT DO NOTHING).
func (r *Repository) BatchInsertLibrary(datasets []*LibraryDataset, batchSize int) error {
	if len(datasets) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100 // Default batch size
	}

	logger.Debug("Inserting library batch",
		zap.Int("datasets", len(datasets)),
		zap.Int("batch_size", batchSize),
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true, // Same content imported twice
		}).CreateInBatches(datasets, batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert %d library datasets: %w", len(datasets), err)
	}
	return nil
}

// ListLibrary returns all library datasets without their records, newest first
func (r *Repository) ListLibrary(ctx context.Context) ([]LibraryDataset, error) {
	var datasets []LibraryDataset
	err := r.db.WithContext(ctx).
		Select(libraryColumns).
		Order("created_at DESC, name ASC").
		Find(&datasets).Error
	if err != nil {
		return nil, err
	}
	return datasets, nil
}

// GetLibraryDataset returns one dataset including its records.
// It returns gorm.ErrRecordNotFound for an unknown fingerprint.
func (r *Repository) GetLibraryDataset(ctx context.Context, fingerprint string) (*LibraryDataset, error) {
	var d LibraryDataset
	if err := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteLibraryDataset removes a dataset.
// It returns gorm.ErrRecordNotFound for an unknown fingerprint.
func (r *Repository) DeleteLibraryDataset(ctx context.Context, fingerprint string) error {
	result := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).Delete(&LibraryDataset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountLibrary returns the number of library datasets
func (r *Repository) CountLibrary(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LibraryDataset{}).Count(&count).Error
	return count, err
}
