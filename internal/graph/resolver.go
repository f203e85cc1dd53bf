package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/search"
	"github.com/palemoky/chinese-trainer/internal/session"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// LibraryReader lists datasets imported by the CLI
type LibraryReader interface {
	ListLibrary(ctx context.Context) ([]database.LibraryDataset, error)
}

// Resolver answers the root fields of the schema
type Resolver struct {
	Trainer *session.Trainer
	Library LibraryReader

	engines search.Cache
}

// NewResolver creates a resolver. library may be nil, which yields an empty library.
func NewResolver(trainer *session.Trainer, library LibraryReader) *Resolver {
	return &Resolver{
		Trainer: trainer,
		Library: library,
	}
}

// object is a resolved GraphQL object keyed by schema field name
type object struct {
	typeName string
	fields   map[string]any
}

func (r *Resolver) resolve(ctx context.Context, field string, args map[string]any) (any, error) {
	switch field {
	case "dataset":
		return datasetObject(r.Trainer.Dataset()), nil
	case "records":
		return r.records(args), nil
	case "record":
		return r.record(args), nil
	case "library":
		return r.library(ctx)
	case "progress":
		return progressObject(r.Trainer.Progress()), nil
	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
}

func (r *Resolver) records(args map[string]any) object {
	ds := r.Trainer.Dataset()
	page := max(intArg(args, "page", 1), 1)
	pageSize := intArg(args, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	query, _ := args["query"].(string)
	var (
		records []loader.Record
		total   int
		hasMore bool
	)
	if query == "" {
		start, end := window(page, pageSize, ds.Len())
		records, total, hasMore = ds.Records[start:end], ds.Len(), end < ds.Len()
	} else {
		by, _ := args["by"].(string)
		result := r.engines.Engine(ds).Search(search.SearchParams{
			Query:      query,
			SearchType: search.ParseSearchType(by),
			Page:       page,
			PageSize:   pageSize,
		})
		records, total, hasMore = result.Records, result.TotalCount, result.HasMore
	}

	return object{typeName: "RecordPage", fields: map[string]any{
		"records":    recordObjects(records),
		"totalCount": total,
		"page":       page,
		"pageSize":   pageSize,
		"hasMore":    hasMore,
	}}
}

func (r *Resolver) record(args map[string]any) any {
	ds := r.Trainer.Dataset()
	id := intArg(args, "id", -1)
	if id < 0 || id >= ds.Len() {
		return nil
	}
	return recordObject(ds.Records[id])
}

func (r *Resolver) library(ctx context.Context) ([]object, error) {
	if r.Library == nil {
		return []object{}, nil
	}
	datasets, err := r.Library.ListLibrary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	out := make([]object, len(datasets))
	for i, d := range datasets {
		out[i] = object{typeName: "LibraryDataset", fields: map[string]any{
			"fingerprint": d.Fingerprint,
			"name":        d.Name,
			"path":        d.Path,
			"delimiter":   d.Delimiter,
			"recordCount": d.RecordCount,
			"createdAt":   d.CreatedAt.UTC().Format(time.RFC3339),
		}}
	}
	return out, nil
}

func datasetObject(ds dataset.Dataset) object {
	return object{typeName: "Dataset", fields: map[string]any{
		"source":      string(ds.Source),
		"fingerprint": ds.Fingerprint,
		"count":       ds.Len(),
		"types":       dataset.Types(ds.Records),
	}}
}

func progressObject(p session.Progress) object {
	return object{typeName: "Progress", fields: map[string]any{
		"xp":     p.XP,
		"streak": p.Streak,
	}}
}

func recordObject(rec loader.Record) object {
	return object{typeName: "Record", fields: map[string]any{
		"id":             rec.ID,
		"type":           rec.Type,
		"chinese":        rec.Chinese,
		"pinyin":         rec.Pinyin,
		"english":        rec.English,
		"example":        rec.Example,
		"examplePinyin":  rec.ExamplePinyin,
		"exampleEnglish": rec.ExampleEnglish,
		"literal":        rec.Literal,
	}}
}

func recordObjects(records []loader.Record) []object {
	out := make([]object, len(records))
	for i, rec := range records {
		out[i] = recordObject(rec)
	}
	return out
}

// window returns the bounds of a page within n items; pages past the end are empty
func window(page, pageSize, n int) (start, end int) {
	if page-1 > n/pageSize {
		return n, n
	}
	start = min((page-1)*pageSize, n)
	return start, min(start+pageSize, n)
}

// intArg reads an Int argument. Literals arrive as int64, variables as int64 or float64.
func intArg(args map[string]any, name string, fallback int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case int64:
		return clampInt(v)
	case float64:
		return clampInt(int64(v))
	default:
		return fallback
	}
}

func clampInt(v int64) int {
	const maxInt32, minInt32 = 1<<31 - 1, -1 << 31
	return int(min(max(v, minInt32), maxInt32))
}
