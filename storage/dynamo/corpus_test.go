package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poiesic/qabot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberList(values ...string) *types.AttributeValueMemberL {
	elems := make([]types.AttributeValue, len(values))
	for i, v := range values {
		elems[i] = &types.AttributeValueMemberN{Value: v}
	}
	return &types.AttributeValueMemberL{Value: elems}
}

func rawItem(id string, embedding types.AttributeValue) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		attrID:       &types.AttributeValueMemberS{Value: id},
		attrQuestion: &types.AttributeValueMemberS{Value: "q " + id},
		attrAnswer:   &types.AttributeValueMemberS{Value: "a " + id},
	}
	if embedding != nil {
		item[attrEmbedding] = embedding
	}
	return item
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := New(newMockClient())
		require.NoError(t, err)
		assert.Equal(t, DefaultTable, c.Table())
	})

	t.Run("custom table", func(t *testing.T) {
		c, err := New(newMockClient(), WithTable("faq"), WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, "faq", c.Table())
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := New(newMockClient(), WithTable(""))
		assert.Error(t, err)
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestCorpus_PutAndFetch(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	corpus, err := New(client)
	require.NoError(t, err)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err = corpus.PutRecord(ctx, &core.QARecord{
		Id:        "test-1",
		Question:  "What is Perso.ai?",
		Answer:    "An AI video platform.",
		Embedding: core.Vector{0.5, -0.25, 1},
		Metadata:  core.Metadata{CreatedAt: created, Source: "test"},
	})
	require.NoError(t, err)

	records, err := corpus.FetchAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "test-1", r.Id)
	assert.Equal(t, "What is Perso.ai?", r.Question)
	assert.Equal(t, "An AI video platform.", r.Answer)
	assert.Equal(t, core.Metadata{CreatedAt: created, Source: "test"}, r.Metadata)

	vec, err := r.Embedding.Vector()
	require.NoError(t, err)
	assert.Equal(t, core.Vector{0.5, -0.25, 1}, vec)

	_, isList := client.items["test-1"][attrEmbedding].(*types.AttributeValueMemberL)
	assert.True(t, isList, "embeddings are written as a list of numbers")
}

func TestCorpus_FetchPaginates(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	client.pageSize = 2
	corpus, err := New(client)
	require.NoError(t, err)

	for i := range 5 {
		client.items[fmt.Sprintf("id-%d", i)] = rawItem(fmt.Sprintf("id-%d", i), numberList("1", "0"))
	}

	records, err := corpus.FetchAllRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, 3, client.scans)
}

func TestCorpus_FetchScanError(t *testing.T) {
	client := newMockClient()
	client.scanErr = errors.New("throttled")
	corpus, err := New(client)
	require.NoError(t, err)

	_, err = corpus.FetchAllRecords(context.Background())
	assert.ErrorIs(t, err, client.scanErr)
}

func TestCorpus_EmbeddingForms(t *testing.T) {
	tests := []struct {
		name    string
		av      types.AttributeValue
		want    core.Vector
		wantErr error
	}{
		{name: "number list", av: numberList("0.1", "0.2"), want: core.Vector{0.1, 0.2}},
		{name: "number set", av: &types.AttributeValueMemberNS{Value: []string{"1", "2"}}, wantErr: core.ErrRecordParse},
		{name: "json string", av: &types.AttributeValueMemberS{Value: "[0.5, 0.25]"}, want: core.Vector{0.5, 0.25}},
		{name: "missing", av: nil, wantErr: core.ErrMissingEmbedding},
		{name: "null", av: &types.AttributeValueMemberNULL{Value: true}, wantErr: core.ErrMissingEmbedding},
		{name: "empty list", av: &types.AttributeValueMemberL{}, wantErr: core.ErrMissingEmbedding},
		{name: "non-numeric element", av: numberList("0.1", "abc"), wantErr: core.ErrRecordParse},
		{
			name:    "string element in list",
			av:      &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: "x"}}},
			wantErr: core.ErrRecordParse,
		},
		{name: "bad json", av: &types.AttributeValueMemberS{Value: "not json"}, wantErr: core.ErrRecordParse},
		{name: "wrong type", av: &types.AttributeValueMemberBOOL{Value: true}, wantErr: core.ErrRecordParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			client.items["x"] = rawItem("x", tt.av)
			corpus, err := New(client)
			require.NoError(t, err)

			records, err := corpus.FetchAllRecords(context.Background())
			require.NoError(t, err, "embedding problems never fail the scan")
			require.Len(t, records, 1)

			var vec core.Vector
			if records[0].Embedding == nil {
				err = core.ErrMissingEmbedding
			} else {
				vec, err = records[0].Embedding.Vector()
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, vec)
		})
	}
}

func TestCorpus_CreatedAtFormats(t *testing.T) {
	client := newMockClient()
	item := rawItem("x", numberList("1"))
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: "2025-06-01T10:20:30.123456"}
	client.items["x"] = item
	item2 := rawItem("y", numberList("1"))
	item2[attrCreatedAt] = &types.AttributeValueMemberS{Value: "yesterday"}
	client.items["y"] = item2

	corpus, err := New(client)
	require.NoError(t, err)

	records, err := corpus.FetchAllRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2025, 6, 1, 10, 20, 30, 123456000, time.UTC), records[0].Metadata.CreatedAt)
	assert.True(t, records[1].Metadata.CreatedAt.IsZero())
}

func TestCorpus_PutRecordErrors(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	corpus, err := New(client)
	require.NoError(t, err)

	err = corpus.PutRecord(ctx, &core.QARecord{Question: "no id"})
	assert.ErrorIs(t, err, core.ErrEmptyID)

	err = corpus.PutRecord(ctx, &core.QARecord{Id: "x", Embedding: core.Vector{}})
	assert.ErrorIs(t, err, core.ErrInvalidRecord)

	client.putErr = errors.New("access denied")
	err = corpus.PutRecord(ctx, &core.QARecord{Id: "x", Embedding: core.Vector{1}})
	assert.ErrorIs(t, err, client.putErr)
}

func TestCorpus_DeleteRecords(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	corpus, err := New(client)
	require.NoError(t, err)

	for _, id := range []string{"test-1", "test-2", "keep"} {
		client.items[id] = rawItem(id, numberList("1"))
	}

	require.NoError(t, corpus.DeleteRecords(ctx, "test-1", "test-2", "missing"))
	assert.Len(t, client.items, 1)
	assert.Contains(t, client.items, "keep")
	assert.NoError(t, corpus.Close())
}
