package handler

import (
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// formatDataset summarizes a dataset for API responses, leaving out the records.
func formatDataset(ds dataset.Dataset) map[string]any {
	return map[string]any{
		"source":      ds.Source,
		"fingerprint": ds.Fingerprint,
		"count":       ds.Len(),
		"types":       dataset.Types(ds.Records),
	}
}

// formatStats reports how an upload was parsed.
func formatStats(s loader.Stats) map[string]any {
	return map[string]any{
		"delimiter": loader.DelimiterName(s.Delimiter),
		"mapped":    s.MappedNames(),
		"rows":      s.Rows,
		"blank":     s.Blank,
		"dropped":   s.Dropped,
		"malformed": s.Malformed,
		"records":   s.Records,
	}
}

// formatLibraryDataset formats an imported dataset for API responses.
func formatLibraryDataset(d *database.LibraryDataset) map[string]any {
	result := map[string]any{
		"fingerprint":  d.Fingerprint,
		"name":         d.Name,
		"delimiter":    d.Delimiter,
		"record_count": d.RecordCount,
		"created_at":   d.CreatedAt,
	}
	if d.Path != "" {
		result["path"] = d.Path
	}
	return result
}
