package exercise

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func samplePool() []loader.Record {
	return dataset.Sample().Records
}

// widePool returns n records whose chinese and english values are all distinct.
func widePool(n int) []loader.Record {
	chars := []rune("一二三四五六七八九十天地人水火山木金土日月")
	pool := make([]loader.Record, n)
	for i := range pool {
		pool[i] = loader.Record{
			ID:      i,
			Type:    "Noun",
			Chinese: string(chars[i%len(chars)]),
			English: fmt.Sprintf("word-%d", i),
		}
	}
	return pool
}
