package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

// DefaultSlot names the single snapshot row kept for the active upload.
const DefaultSlot = "default"

// DatasetSnapshot holds the most recently uploaded record list
type DatasetSnapshot struct {
	Slot        string         `gorm:"primaryKey;size:32"     json:"slot"`
	Fingerprint string         `gorm:"size:8;not null"        json:"fingerprint"`
	RecordCount int            `gorm:"not null"               json:"record_count"`
	Records     datatypes.JSON `gorm:"type:json;not null"     json:"records"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"         json:"updated_at"`
}

// TableName specifies the table name for DatasetSnapshot
func (DatasetSnapshot) TableName() string {
	return "dataset_snapshots"
}

// ProgressRecord stores XP and streak per dataset fingerprint
type ProgressRecord struct {
	Fingerprint string    `gorm:"primaryKey;size:8" json:"fingerprint"`
	XP          int       `gorm:"not null"          json:"xp"`
	Streak      int       `gorm:"not null"          json:"streak"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"    json:"updated_at"`
}

// TableName specifies the table name for ProgressRecord
func (ProgressRecord) TableName() string {
	return "progress"
}

// LibraryDataset is an imported vocabulary file kept for later activation
type LibraryDataset struct {
	Fingerprint string         `gorm:"primaryKey;size:8"   json:"fingerprint"`
	Name        string         `gorm:"not null;index"      json:"name"`
	Path        string         `                           json:"path,omitempty"`
	Delimiter   string         `gorm:"size:8"              json:"delimiter"`
	RecordCount int            `gorm:"not null"            json:"record_count"`
	Records     datatypes.JSON `gorm:"type:json;not null"  json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"      json:"created_at"`
}

// TableName specifies the table name for LibraryDataset
func (LibraryDataset) TableName() string {
	return "library_datasets"
}

// DecodeRecords returns the stored record list
func (d *LibraryDataset) DecodeRecords() ([]loader.Record, error) {
	return DecodeRecords(d.Records)
}

// Metadata is a key/value table for schema bookkeeping
type Metadata struct {
	Key       string    `gorm:"primaryKey"     json:"key"`
	Value     string    `gorm:"not null"       json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Metadata
func (Metadata) TableName() string {
	return "metadata"
}

// EncodeRecords serializes records for a JSON column. Nil encodes as [].
func EncodeRecords(records []loader.Record) (datatypes.JSON, error) {
	if records == nil {
		records = []loader.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return datatypes.JSON(data), nil
}

// DecodeRecords parses a JSON column back into records
func DecodeRecords(data datatypes.JSON) ([]loader.Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []loader.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
