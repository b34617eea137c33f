package search

import (
	"testing"

	"github.com/poiesic/qabot/core"
	"github.com/stretchr/testify/assert"
)

func candidates(scores ...float64) []core.Candidate {
	out := make([]core.Candidate, len(scores))
	for i, s := range scores {
		out[i] = core.Candidate{Id: string(rune('a' + i)), Similarity: s}
	}
	return out
}

func similarities(cands []core.Candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.Similarity
	}
	return out
}

func TestRank_TopK(t *testing.T) {
	in := candidates(0.95, 0.80, 0.90, 0.72)

	got := Rank(in, 3)
	assert.Equal(t, []float64{0.95, 0.90, 0.80}, similarities(got))
	assert.Equal(t, []float64{0.95, 0.80, 0.90, 0.72}, similarities(in), "input must not be reordered")
}

func TestRank_StableTies(t *testing.T) {
	in := candidates(0.8, 0.9, 0.8, 0.8)

	got := Rank(in, 0)
	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.Id
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids)
}

func TestRank_Limits(t *testing.T) {
	in := candidates(0.1, 0.2, 0.3)

	t.Run("zero keeps all", func(t *testing.T) {
		assert.Len(t, Rank(in, 0), 3)
	})

	t.Run("negative keeps all", func(t *testing.T) {
		assert.Len(t, Rank(in, -1), 3)
	})

	t.Run("k larger than input", func(t *testing.T) {
		assert.Len(t, Rank(in, 10), 3)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Rank(nil, 3))
	})
}
