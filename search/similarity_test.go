package search

import (
	"math"
	"testing"

	"github.com/poiesic/qabot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b core.Vector
		want float64
	}{
		{name: "identical", a: core.Vector{0.3, -1.2, 4.5}, b: core.Vector{0.3, -1.2, 4.5}, want: 1},
		{name: "orthogonal", a: core.Vector{1, 0}, b: core.Vector{0, 1}, want: 0},
		{name: "opposite", a: core.Vector{1, 2}, b: core.Vector{-1, -2}, want: -1},
		{name: "scaled copy", a: core.Vector{1, 2, 3}, b: core.Vector{10, 20, 30}, want: 1},
		{name: "zero left", a: core.Vector{0, 0, 0}, b: core.Vector{1, 2, 3}, want: 0},
		{name: "zero right", a: core.Vector{1, 2, 3}, b: core.Vector{0, 0, 0}, want: 0},
		{name: "both zero", a: core.Vector{0, 0}, b: core.Vector{0, 0}, want: 0},
		{name: "forty five degrees", a: core.Vector{1, 0}, b: core.Vector{1, 1}, want: 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosine_SelfSimilarity(t *testing.T) {
	vec := core.Vector{0.12, 0.5, -0.33, 0.9, 0.01}
	got, err := Cosine(vec, vec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine(core.Vector{1, 2, 3}, core.Vector{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIncompatibleDimension)
	assert.Contains(t, err.Error(), "3 != 2")
}

func TestCosine_Deterministic(t *testing.T) {
	a := core.Vector{0.1, 0.2, 0.3, 0.4}
	b := core.Vector{0.4, 0.3, 0.2, 0.1}

	first, err := Cosine(a, b)
	require.NoError(t, err)
	for range 10 {
		got, err := Cosine(a, b)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
