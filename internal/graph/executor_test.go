package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/session"
	"github.com/palemoky/chinese-trainer/internal/testutil"
)

// setupTestExecutor serves the sample dataset with a score of 30 xp and one imported dataset
func setupTestExecutor(t *testing.T) *Executor {
	t.Helper()
	ctx := context.Background()

	_, repo := testutil.SetupTestDB(t)
	records := testutil.Records()
	data, err := database.EncodeRecords(records)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLibraryDataset(ctx, &database.LibraryDataset{
		Fingerprint: dataset.Fingerprint(records),
		Name:        "starter",
		Path:        "vocab/starter.csv",
		Delimiter:   "comma",
		RecordCount: len(records),
		Records:     data,
	}))

	sample := dataset.Sample()
	require.NoError(t, repo.SaveProgress(ctx, sample.Fingerprint, session.Progress{XP: 30, Streak: 3}))

	trainer := session.NewTrainer(repo, answer.Matcher{}, nil)
	trainer.SetDataset(ctx, sample)

	return NewExecutor(NewResolver(trainer, repo))
}

// run executes a query and decodes its JSON response into out
func run(t *testing.T, exec *Executor, query string, vars map[string]any, out any) gqlerror.List {
	t.Helper()

	resp, err := exec.Execute(context.Background(), Request{Query: query, Variables: vars})
	require.NoError(t, err)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out), string(body))
	}
	return resp.Errors
}

func TestDatasetQuery(t *testing.T) {
	exec := setupTestExecutor(t)

	var resp struct {
		Typename string `json:"__typename"`
		Dataset  struct {
			Source      string
			Fingerprint string
			Count       int
			Types       []string
		}
	}
	errs := run(t, exec, `{ __typename dataset { source fingerprint count types } }`, nil, &resp)
	require.Empty(t, errs)

	assert.Equal(t, "Query", resp.Typename)
	assert.Equal(t, "built-in-sample", resp.Dataset.Source)
	assert.Equal(t, "cbae2d89", resp.Dataset.Fingerprint)
	assert.Equal(t, 2, resp.Dataset.Count)
	assert.Equal(t, []string{"Adjective", "All"}, resp.Dataset.Types)
}

func TestRecordsQuery(t *testing.T) {
	exec := setupTestExecutor(t)

	const query = `query Records($q: String, $by: SearchBy, $page: Int, $size: Int) {
		records(query: $q, by: $by, page: $page, pageSize: $size) {
			records { id chinese english }
			totalCount page pageSize hasMore
		}
	}`

	tests := []struct {
		name        string
		vars        map[string]any
		wantChinese []string
		wantTotal   int
		wantMore    bool
		wantSize    int
	}{
		{name: "defaults", vars: nil, wantChinese: []string{"大", "多"}, wantTotal: 2, wantSize: 20},
		{name: "second page", vars: map[string]any{"page": 2, "size": 1}, wantChinese: []string{"多"}, wantTotal: 2, wantSize: 1},
		{name: "first page has more", vars: map[string]any{"page": 1, "size": 1}, wantChinese: []string{"大"}, wantTotal: 2, wantMore: true, wantSize: 1},
		{name: "json numbers", vars: map[string]any{"page": float64(1), "size": float64(1)}, wantChinese: []string{"大"}, wantTotal: 2, wantMore: true, wantSize: 1},
		{name: "page size capped", vars: map[string]any{"size": 1000}, wantChinese: []string{"大", "多"}, wantTotal: 2, wantSize: 100},
		{name: "huge page", vars: map[string]any{"page": 1 << 30}, wantChinese: []string{}, wantTotal: 2, wantSize: 20},
		{name: "english search", vars: map[string]any{"q": "many", "by": "ENGLISH"}, wantChinese: []string{"多"}, wantTotal: 1, wantSize: 20},
		{name: "pinyin search", vars: map[string]any{"q": "da", "by": "PINYIN"}, wantChinese: []string{"大"}, wantTotal: 1, wantSize: 20},
		{name: "no match", vars: map[string]any{"q": "zebra"}, wantChinese: []string{}, wantTotal: 0, wantSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp struct {
				Records struct {
					Records []struct {
						ID      int
						Chinese string
						English string
					}
					TotalCount int
					Page       int
					PageSize   int
					HasMore    bool
				}
			}
			errs := run(t, exec, query, tt.vars, &resp)
			require.Empty(t, errs)

			chinese := []string{}
			for _, r := range resp.Records.Records {
				chinese = append(chinese, r.Chinese)
			}
			assert.Equal(t, tt.wantChinese, chinese)
			assert.Equal(t, tt.wantTotal, resp.Records.TotalCount)
			assert.Equal(t, tt.wantMore, resp.Records.HasMore)
			assert.Equal(t, tt.wantSize, resp.Records.PageSize)
		})
	}
}

func TestRecordQuery(t *testing.T) {
	exec := setupTestExecutor(t)

	var resp struct {
		First   *struct{ Chinese, Pinyin, Literal string }
		Missing *struct{ Chinese string }
	}
	errs := run(t, exec, `{
		first: record(id: 0) { chinese pinyin literal }
		missing: record(id: 9) { chinese }
	}`, nil, &resp)
	require.Empty(t, errs)

	require.NotNil(t, resp.First)
	assert.Equal(t, "大", resp.First.Chinese)
	assert.Equal(t, "dà", resp.First.Pinyin)
	assert.Equal(t, "This apple very big.", resp.First.Literal)
	assert.Nil(t, resp.Missing)
}

func TestLibraryAndProgressQuery(t *testing.T) {
	exec := setupTestExecutor(t)

	var resp struct {
		Library []struct {
			Fingerprint string
			Name        string
			Path        string
			RecordCount int
			CreatedAt   string
		}
		Progress struct{ XP, Streak int }
	}
	errs := run(t, exec, `{ library { fingerprint name path recordCount createdAt } progress { xp streak } }`, nil, &resp)
	require.Empty(t, errs)

	require.Len(t, resp.Library, 1)
	assert.Equal(t, dataset.Fingerprint(testutil.Records()), resp.Library[0].Fingerprint)
	assert.Equal(t, "starter", resp.Library[0].Name)
	assert.Equal(t, "vocab/starter.csv", resp.Library[0].Path)
	assert.Equal(t, 4, resp.Library[0].RecordCount)
	_, err := time.Parse(time.RFC3339, resp.Library[0].CreatedAt)
	assert.NoError(t, err)

	assert.Equal(t, 30, resp.Progress.XP)
	assert.Equal(t, 3, resp.Progress.Streak)
}

func TestFragmentsAndDirectives(t *testing.T) {
	exec := setupTestExecutor(t)

	const query = `query ($withCount: Boolean!) {
		ds: dataset { ...summary count @include(if: $withCount) }
		dataset { source @skip(if: true) }
		records(pageSize: 1) {
			records { ... on Record { __typename meaning: english } }
			... on RecordPage { hasMore }
		}
	}
	fragment summary on Dataset { fingerprint }`

	tests := []struct {
		name      string
		withCount bool
		want      string
	}{
		{
			name:      "included",
			withCount: true,
			want:      `{"ds":{"fingerprint":"cbae2d89","count":2},"dataset":{},"records":{"records":[{"__typename":"Record","meaning":"big"}],"hasMore":true}}`,
		},
		{
			name:      "excluded",
			withCount: false,
			want:      `{"ds":{"fingerprint":"cbae2d89"},"dataset":{},"records":{"records":[{"__typename":"Record","meaning":"big"}],"hasMore":true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := exec.Execute(context.Background(), Request{
				Query:     query,
				Variables: map[string]any{"withCount": tt.withCount},
			})
			require.NoError(t, err)
			require.Empty(t, resp.Errors)

			data, err := json.Marshal(resp.Data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data), "keys follow selection order")
		})
	}
}

func TestRejectedRequests(t *testing.T) {
	exec := setupTestExecutor(t)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "syntax error", req: Request{Query: `{ dataset {`}},
		{name: "unknown field", req: Request{Query: `{ poems { title } }`}},
		{name: "missing selection", req: Request{Query: `{ dataset }`}},
		{name: "mutation", req: Request{Query: `mutation { reset }`}},
		{name: "missing variable", req: Request{Query: `query ($id: Int!) { record(id: $id) { chinese } }`}},
		{name: "wrong variable type", req: Request{Query: `query ($id: Int!) { record(id: $id) { chinese } }`, Variables: map[string]any{"id": "zero"}}},
		{name: "unknown operation", req: Request{Query: `query A { progress { xp } }`, OperationName: "B"}},
		{name: "ambiguous operation", req: Request{Query: `query A { progress { xp } } query B { progress { xp } }`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := exec.Execute(context.Background(), tt.req)
			assert.Nil(t, resp)
			require.Error(t, err)

			var list gqlerror.List
			require.True(t, errors.As(err, &list))
			assert.NotEmpty(t, list)
		})
	}
}

func TestNamedOperation(t *testing.T) {
	exec := setupTestExecutor(t)

	resp, err := exec.Execute(context.Background(), Request{
		Query:         `query A { progress { xp } } query B { progress { streak } }`,
		OperationName: "B",
	})
	require.NoError(t, err)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"progress":{"streak":3}}`, string(data))
}

func TestIntrospectionIsRefused(t *testing.T) {
	exec := setupTestExecutor(t)

	resp, err := exec.Execute(context.Background(), Request{Query: `{ __schema { queryType { name } } progress { xp } }`})
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "introspection is not supported", resp.Errors[0].Message)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"__schema":null,"progress":{"xp":30}}`, string(data))
}

type failingLibrary struct{}

func (failingLibrary) ListLibrary(context.Context) ([]database.LibraryDataset, error) {
	return nil, errors.New("disk on fire")
}

func TestFieldErrorNullsData(t *testing.T) {
	trainer := session.NewTrainer(nil, answer.Matcher{}, nil)
	trainer.SetDataset(context.Background(), dataset.Sample())
	exec := NewExecutor(NewResolver(trainer, failingLibrary{}))

	resp, err := exec.Execute(context.Background(), Request{Query: `{ progress { xp } library { name } }`})
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "disk on fire")
	assert.Equal(t, "library", resp.Errors[0].Path.String())

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"data":null`)
}

func TestNilLibrary(t *testing.T) {
	trainer := session.NewTrainer(nil, answer.Matcher{}, nil)
	trainer.SetDataset(context.Background(), dataset.Sample())
	exec := NewExecutor(NewResolver(trainer, nil))

	var resp struct{ Library []struct{ Name string } }
	errs := run(t, exec, `{ library { name } }`, nil, &resp)
	require.Empty(t, errs)
	assert.Empty(t, resp.Library)
}
