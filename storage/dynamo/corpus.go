// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "qa-documents"

// Attribute names
const (
	attrID        = "id"
	attrQuestion  = "question"
	attrAnswer    = "answer"
	attrEmbedding = "embedding"
	attrSource    = "source"
	attrCreatedAt = "created_at"
)

// Client is the subset of the DynamoDB API the corpus uses.
type Client interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// Corpus stores Q&A records in a DynamoDB table.
type Corpus struct {
	client Client
	table  string
	logger *slog.Logger
}

var _ storage.CorpusRepository = (*Corpus)(nil)

// Option configures a Corpus.
type Option func(*Corpus) error

// WithTable sets the table name. Default is DefaultTable.
func WithTable(table string) Option {
	return func(c *Corpus) error {
		if table == "" {
			return errors.New("table name cannot be empty")
		}
		c.table = table
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Corpus) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Corpus on client.
func New(client Client, opts ...Option) (*Corpus, error) {
	if client == nil {
		return nil, errors.New("dynamodb client required")
	}

	c := &Corpus{
		client: client,
		table:  DefaultTable,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "dynamo", "table", c.table)
	return c, nil
}

// Table returns the table name.
func (c *Corpus) Table() string {
	return c.table
}

// Close is a no-op; the client has no resources to release.
func (c *Corpus) Close() error {
	return nil
}

// FetchAllRecords scans the whole table, following pagination.
func (c *Corpus) FetchAllRecords(ctx context.Context) ([]*core.QARecord, error) {
	var (
		records  []*core.QARecord
		startKey map[string]types.AttributeValue
		pages    int
	)

	for {
		out, err := c.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c.table, err)
		}
		pages++

		for _, item := range out.Items {
			records = append(records, c.decodeItem(item))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	c.logger.Debug("scanned corpus", "records", len(records), "pages", pages)
	return records, nil
}

// decodeItem converts an item to a record. Text fields of the wrong type
// are left empty; the embedding is decoded later.
func (c *Corpus) decodeItem(item map[string]types.AttributeValue) *core.QARecord {
	record := &core.QARecord{
		Id:       stringAttr(item, attrID),
		Question: stringAttr(item, attrQuestion),
		Answer:   stringAttr(item, attrAnswer),
		Metadata: core.Metadata{Source: stringAttr(item, attrSource)},
	}

	if av, ok := item[attrEmbedding]; ok && av != nil {
		record.Embedding = attributeEmbedding{av: av}
	}

	if ts := stringAttr(item, attrCreatedAt); ts != "" {
		created, err := parseTimestamp(ts)
		if err != nil {
			c.logger.Debug("ignoring unparseable created_at", "id", record.Id, "value", ts)
		} else {
			record.Metadata.CreatedAt = created
		}
	}
	return record
}

// PutRecord writes a record, replacing any item with the same id.
func (c *Corpus) PutRecord(ctx context.Context, record *core.QARecord) error {
	if record == nil || record.Id == "" {
		return fmt.Errorf("%w: %w", core.ErrInvalidRecord, core.ErrEmptyID)
	}

	item := map[string]types.AttributeValue{
		attrID:       &types.AttributeValueMemberS{Value: record.Id},
		attrQuestion: &types.AttributeValueMemberS{Value: record.Question},
		attrAnswer:   &types.AttributeValueMemberS{Value: record.Answer},
	}
	if record.Embedding != nil {
		vec, err := record.Embedding.Vector()
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidRecord, err)
		}
		item[attrEmbedding] = embeddingAttribute(vec)
	}
	if record.Metadata.Source != "" {
		item[attrSource] = &types.AttributeValueMemberS{Value: record.Metadata.Source}
	}
	if !record.Metadata.CreatedAt.IsZero() {
		item[attrCreatedAt] = &types.AttributeValueMemberS{Value: record.Metadata.CreatedAt.UTC().Format(time.RFC3339Nano)}
	}

	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", record.Id, err)
	}
	return nil
}

// DeleteRecords deletes items by id. Missing ids are ignored.
func (c *Corpus) DeleteRecords(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(c.table),
			Key: map[string]types.AttributeValue{
				attrID: &types.AttributeValueMemberS{Value: id},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
	}
	return nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// parseTimestamp accepts RFC 3339 and the offset-less ISO 8601 form older
// loaders wrote.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
