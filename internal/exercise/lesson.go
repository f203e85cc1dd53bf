package exercise

import (
	"errors"
	"math/rand/v2"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// Lesson size limits.
const (
	MinCount     = 5
	MaxCount     = 50
	DefaultCount = 10
	// SprintCount is the size of a quick review round.
	SprintCount = 5
)

// ErrNoData is returned when a lesson cannot be built from the pool and kinds given.
var ErrNoData = errors.New("no data or exercise kinds selected")

// Instance pairs one record with one exercise kind.
type Instance struct {
	Record loader.Record `json:"record"`
	Kind   Kind          `json:"kind"`
}

// BuildPool keeps records whose type matches filter exactly. Untyped records
// count as "Other"; an empty filter or "All" keeps everything.
func BuildPool(records []loader.Record, filter string) []loader.Record {
	if filter == "" || filter == dataset.TypeAll {
		return records
	}

	var pool []loader.Record
	for _, r := range records {
		if dataset.TypeOf(r) == filter {
			pool = append(pool, r)
		}
	}
	return pool
}

// ClampCount limits a requested lesson size to [MinCount, MaxCount].
// Zero selects DefaultCount.
func ClampCount(n int) int {
	if n == 0 {
		return DefaultCount
	}
	return max(MinCount, min(MaxCount, n))
}

// GenerateLesson draws min(requested, 2*len(pool)) instances. Each instance
// picks a record and a kind uniformly at random with replacement, so repeats
// are possible.
func GenerateLesson(rng *rand.Rand, pool []loader.Record, requested int, kinds []Kind) ([]Instance, error) {
	if len(pool) == 0 || len(kinds) == 0 {
		return nil, ErrNoData
	}

	n := min(requested, 2*len(pool))
	if n <= 0 {
		return nil, ErrNoData
	}

	lesson := make([]Instance, n)
	for i := range lesson {
		lesson[i] = Instance{
			Record: Choice(rng, pool),
			Kind:   Choice(rng, kinds),
		}
	}
	return lesson, nil
}
