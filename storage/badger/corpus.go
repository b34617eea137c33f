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

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
)

// CorpusRepository stores Q&A records in BadgerDB.
type CorpusRepository struct {
	backend     *Backend
	ownsBackend bool
	logger      *slog.Logger
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a CorpusRepository on an open backend.
// Closing the repository leaves the backend open.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &CorpusRepository{
		backend: backend,
		logger:  backend.logger,
	}, nil
}

// Open opens (or creates) a corpus at path. The returned repository owns
// the database and closes it on Close.
func Open(path string, logger *slog.Logger) (storage.CorpusRepository, error) {
	backend, err := OpenBackend(path, false, logger)
	if err != nil {
		return nil, err
	}
	repo, err := NewCorpusRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close closes the backend if the repository owns it.
func (r *CorpusRepository) Close() error {
	if !r.ownsBackend || r.backend.IsClosed() {
		return nil
	}
	return r.backend.Close()
}

// FetchAllRecords returns every Q&A record, ordered by ID.
// A value that cannot be decoded is returned as a record carrying only its
// ID and an embedding that reports core.ErrRecordParse.
func (r *CorpusRepository) FetchAllRecords(ctx context.Context) ([]*core.QARecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.QARecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeQARecordScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			id := idFromQARecordKey(item.Key())

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			record, err := storage.UnmarshalQARecord(val)
			if err != nil {
				r.logger.Warn("undecodable record value", "id", id, "err", err)
				record = &core.QARecord{Id: id, Embedding: storage.UnreadableEmbedding{Err: err}}
			}
			records = append(records, record)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// PutRecord stores a record, replacing any existing record with the same ID.
func (r *CorpusRepository) PutRecord(ctx context.Context, record *core.QARecord) error {
	if record == nil || record.Id == "" {
		return fmt.Errorf("%w: %w", core.ErrInvalidRecord, core.ErrEmptyID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := storage.MarshalQARecord(record)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeQARecordKey(record.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single record by ID.
// Returns storage.ErrNotFound if the record doesn't exist.
func (r *CorpusRepository) GetRecord(ctx context.Context, id string) (*core.QARecord, error) {
	var record *core.QARecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeQARecordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalQARecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteRecords removes records by ID. Missing IDs are ignored.
func (r *CorpusRepository) DeleteRecords(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeQARecordKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
