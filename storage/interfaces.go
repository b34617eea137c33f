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

package storage

import (
	"context"

	"github.com/poiesic/qabot/core"
)

// CorpusReader is the read side of a corpus store. It is the only storage
// dependency of the search engine.
type CorpusReader interface {
	// FetchAllRecords returns every record in the corpus, in store order.
	// Records with missing or malformed embeddings are still returned;
	// their Embedding reports the problem when decoded.
	// Returns an error only when the store itself cannot be read.
	FetchAllRecords(ctx context.Context) ([]*core.QARecord, error)
}

// CorpusWriter is the write side of a corpus store.
type CorpusWriter interface {
	// PutRecord stores a record, replacing any existing record with the same Id.
	PutRecord(ctx context.Context, record *core.QARecord) error
}

// CorpusRepository combines read, write and maintenance operations.
type CorpusRepository interface {
	CorpusReader
	CorpusWriter

	// DeleteRecords removes records by Id. Ids that do not exist are ignored.
	DeleteRecords(ctx context.Context, ids ...string) error

	// Close releases resources held by the store.
	Close() error
}
