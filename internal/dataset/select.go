package dataset

import "github.com/palemoky/chinese-trainer/internal/loader"

// Sources are the candidate inputs for choosing the active dataset.
type Sources struct {
	// Uploaded holds bytes uploaded with the current request, if any.
	Uploaded []byte
	// Stored is the previously persisted snapshot.
	Stored []loader.Record
	// DefaultFile holds the content of the well-known default file, if present.
	DefaultFile []byte
}

// Selection is the outcome of Select.
type Selection struct {
	Dataset Dataset
	// Persist is set when the dataset came from a fresh upload and must be
	// stored as the new snapshot.
	Persist bool
	// Stats describes the parse that produced Dataset. It is zero for
	// snapshots and the sample.
	Stats loader.Stats
	// UploadStats describes the upload parse even when the upload was rejected.
	UploadStats *loader.Stats
}

// Select applies the dataset precedence: a fresh upload with at least one
// record, then the stored snapshot, then the default file when it yields
// records, then the built-in sample.
func Select(src Sources) Selection {
	var sel Selection

	if src.Uploaded != nil {
		ds, stats := Ingest(src.Uploaded, SourceUploaded)
		sel.UploadStats = &stats
		if !ds.Empty() {
			sel.Dataset, sel.Stats, sel.Persist = ds, stats, true
			return sel
		}
	}

	if len(src.Stored) > 0 {
		sel.Dataset = New(src.Stored, SourceUploaded)
		return sel
	}

	if src.DefaultFile != nil {
		ds, stats := Ingest(src.DefaultFile, SourceFileDefault)
		if !ds.Empty() {
			sel.Dataset, sel.Stats = ds, stats
			return sel
		}
	}

	sel.Dataset = Sample()
	return sel
}
