package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicVector(t *testing.T) {
	a := DeterministicVector("hello", 16)
	b := DeterministicVector("hello", 16)
	c := DeterministicVector("goodbye", 16)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_Defaults(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	vec, err := m.EmbedText(ctx, "q")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimensions)

	vecs, err := m.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)

	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, []string{"q", "a", "b"}, m.Texts())

	m.Reset()
	assert.Zero(t, m.CallCount())
	assert.Empty(t, m.Texts())
}

func TestMockEmbedder_Injection(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
		return nil, boom
	})

	_, err := m.EmbedText(context.Background(), "q")
	assert.ErrorIs(t, err, boom)

	m.WithVectors(map[string][]float32{"known": {1, 0}})
	vec, err := m.EmbedText(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)

	vec, err = m.EmbedText(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Len(t, vec, DefaultDimensions)
}

func TestMockEmbedder_Concurrent(t *testing.T) {
	m := NewMockEmbedder()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedText(context.Background(), "x")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, m.CallCount())
}
