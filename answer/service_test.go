package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/qabot/ai/mock"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/search"
	"github.com/poiesic/qabot/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService builds a Service over an in-memory corpus holding the
// records A=[1,0] and B=[0,1]. The embedder maps question text to vectors.
func newTestService(t *testing.T, vectors map[string][]float32, opts ...Option) (*Service, *mock.MockEmbedder) {
	t.Helper()
	ctx := context.Background()

	corpus, err := badger.NewMemoryCorpus()
	require.NoError(t, err)
	t.Cleanup(func() { corpus.Close() })

	require.NoError(t, corpus.PutRecord(ctx, &core.QARecord{
		Id: "a", Question: "A", Answer: "Answer A", Embedding: core.Vector{1, 0},
	}))
	require.NoError(t, corpus.PutRecord(ctx, &core.QARecord{
		Id: "b", Question: "B", Answer: "Answer B", Embedding: core.Vector{0, 1},
	}))

	searcher, err := search.NewSearcher(corpus)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder().WithVectors(vectors)
	svc, err := NewService(embedder, searcher, opts...)
	require.NoError(t, err)
	return svc, embedder
}

type staticSearcher struct {
	outcome *core.SearchOutcome
	err     error
}

func (s staticSearcher) Search(context.Context, core.Vector) (*core.SearchOutcome, error) {
	return s.outcome, s.err
}

func TestNewService(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewService(nil, staticSearcher{})
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("requires searcher", func(t *testing.T) {
		_, err := NewService(mock.NewMockEmbedder(), nil)
		assert.ErrorIs(t, err, ErrSearcherRequired)
	})

	t.Run("rejects empty fallback", func(t *testing.T) {
		_, err := NewService(mock.NewMockEmbedder(), staticSearcher{}, WithFallbackAnswer(""))
		assert.Error(t, err)
	})
}

func TestService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("best match", func(t *testing.T) {
		svc, _ := newTestService(t, map[string][]float32{"what is a?": {1, 0}})

		resp, err := svc.Ask(ctx, "  what is a?  ")
		require.NoError(t, err)
		assert.Equal(t, &Response{
			Question:   "what is a?",
			Answer:     "Answer A",
			Similarity: 1.0,
			Success:    true,
		}, resp)
	})

	t.Run("similarity rounded to two decimals", func(t *testing.T) {
		// cosine against B is just under 0.9
		svc, _ := newTestService(t, map[string][]float32{"close to b": {0.4359, 0.9}})

		resp, err := svc.Ask(ctx, "close to b")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Answer B", resp.Answer)
		assert.Equal(t, 0.9, resp.Similarity)
	})

	t.Run("no match uses fallback", func(t *testing.T) {
		svc, _ := newTestService(t, map[string][]float32{"unrelated": {-1, -1}})

		resp, err := svc.Ask(ctx, "unrelated")
		require.NoError(t, err)
		assert.Equal(t, &Response{
			Question: "unrelated",
			Answer:   DefaultFallbackAnswer,
			Success:  false,
		}, resp)
		assert.Equal(t, "죄송합니다. 데이터셋에 해당 정보가 없습니다.", resp.Answer)
	})

	t.Run("custom fallback", func(t *testing.T) {
		svc, _ := newTestService(t, map[string][]float32{"unrelated": {-1, -1}}, WithFallbackAnswer("no idea"))

		resp, err := svc.Ask(ctx, "unrelated")
		require.NoError(t, err)
		assert.Equal(t, "no idea", resp.Answer)
	})

	t.Run("empty question skips embedding", func(t *testing.T) {
		svc, embedder := newTestService(t, nil)

		_, err := svc.Ask(ctx, " \n\t ")
		assert.ErrorIs(t, err, core.ErrEmptyQuestion)
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("embedding failure", func(t *testing.T) {
		embedder := mock.NewMockEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
			return nil, errors.New("throttled")
		})
		svc, err := NewService(embedder, staticSearcher{})
		require.NoError(t, err)

		_, err = svc.Ask(ctx, "anything")
		assert.ErrorIs(t, err, core.ErrEmbeddingProviderFailure)
	})

	t.Run("corpus failure", func(t *testing.T) {
		svc, err := NewService(mock.NewMockEmbedder(), staticSearcher{err: core.ErrCorpusUnavailable})
		require.NoError(t, err)

		_, err = svc.Ask(ctx, "anything")
		assert.ErrorIs(t, err, core.ErrCorpusUnavailable)
	})
}

func TestRoundSimilarity(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{0.954, 0.95},
		{0.955001, 0.96},
		{0.7, 0.7},
		{0.0, 0.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundSimilarity(tt.in), "roundSimilarity(%v)", tt.in)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"empty question", core.ErrEmptyQuestion, 400, "question is required"},
		{"malformed body", ErrMalformedBody, 400, "invalid request body"},
		{"wrapped empty question", errors.Join(errors.New("ctx"), core.ErrEmptyQuestion), 400, "question is required"},
		{"embedding failure", core.ErrEmbeddingProviderFailure, 500, "internal server error"},
		{"corpus failure", core.ErrCorpusUnavailable, 500, "internal server error"},
		{"unknown", errors.New("secret detail"), 500, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
