package maintain

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
	"github.com/poiesic/qabot/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCorpus(t *testing.T, records ...*core.QARecord) storage.CorpusRepository {
	t.Helper()
	corpus, err := badger.NewMemoryCorpus()
	require.NoError(t, err)
	t.Cleanup(func() { corpus.Close() })
	for _, r := range records {
		require.NoError(t, corpus.PutRecord(context.Background(), r))
	}
	return corpus
}

func qa(id, source string) *core.QARecord {
	return &core.QARecord{
		Id:        id,
		Question:  "question " + id,
		Answer:    "answer " + id,
		Embedding: core.Vector{1, 0},
		Metadata:  core.Metadata{Source: source},
	}
}

func TestSelector_Match(t *testing.T) {
	tests := []struct {
		name   string
		sel    Selector
		record *core.QARecord
		want   bool
	}{
		{name: "prefix match", sel: Selector{IDPrefix: "test-"}, record: qa("test-1", ""), want: true},
		{name: "prefix miss", sel: Selector{IDPrefix: "test-"}, record: qa("real-1", ""), want: false},
		{name: "source match", sel: Selector{Source: "test"}, record: qa("x", "test"), want: true},
		{name: "source miss", sel: Selector{Source: "test"}, record: qa("x", "perso.ai"), want: false},
		{name: "both must match", sel: Selector{Source: "test", IDPrefix: "test-"}, record: qa("real-1", "test"), want: false},
		{name: "empty selector", sel: Selector{}, record: qa("x", "test"), want: false},
		{name: "nil record", sel: Selector{Source: "test"}, record: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Match(tt.record))
		})
	}
}

func TestPurger_Purge(t *testing.T) {
	ctx := context.Background()
	corpus := seedCorpus(t,
		qa("test-1", "test"),
		qa("test-2", "test"),
		qa("test-3", "test"),
		qa("perso-1", "perso.ai"),
	)

	purger, err := NewPurger(corpus, WithConcurrency(2))
	require.NoError(t, err)

	n, err := purger.Purge(ctx, Selector{IDPrefix: "test-"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	remaining, err := corpus.FetchAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "perso-1", remaining[0].Id)
}

func TestPurger_DryRun(t *testing.T) {
	ctx := context.Background()
	corpus := seedCorpus(t, qa("a", "test"), qa("b", "test"))

	purger, err := NewPurger(corpus, WithDryRun(true))
	require.NoError(t, err)

	n, err := purger.Purge(ctx, Selector{Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := corpus.FetchAllRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestPurger_Errors(t *testing.T) {
	_, err := NewPurger(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	purger, err := NewPurger(seedCorpus(t))
	require.NoError(t, err)

	_, err = purger.Purge(context.Background(), Selector{})
	assert.ErrorIs(t, err, ErrEmptySelector)
}

type failingRepo struct {
	storage.CorpusRepository
	fetchErr  error
	deleteErr error
	putErr    error
}

func (f *failingRepo) FetchAllRecords(ctx context.Context) ([]*core.QARecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.CorpusRepository.FetchAllRecords(ctx)
}

func (f *failingRepo) DeleteRecords(ctx context.Context, ids ...string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.CorpusRepository.DeleteRecords(ctx, ids...)
}

func (f *failingRepo) PutRecord(ctx context.Context, record *core.QARecord) error {
	if f.putErr != nil && record.Id == "fail" {
		return f.putErr
	}
	return f.CorpusRepository.PutRecord(ctx, record)
}

func TestPurger_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch", func(t *testing.T) {
		repo := &failingRepo{CorpusRepository: seedCorpus(t), fetchErr: errors.New("down")}
		purger, err := NewPurger(repo)
		require.NoError(t, err)

		_, err = purger.Purge(ctx, Selector{Source: "test"})
		assert.ErrorIs(t, err, core.ErrCorpusUnavailable)
	})

	t.Run("delete", func(t *testing.T) {
		deleteErr := errors.New("denied")
		repo := &failingRepo{CorpusRepository: seedCorpus(t, qa("a", "test")), deleteErr: deleteErr}
		purger, err := NewPurger(repo)
		require.NoError(t, err)

		_, err = purger.Purge(ctx, Selector{Source: "test"})
		assert.ErrorIs(t, err, deleteErr)
	})
}
