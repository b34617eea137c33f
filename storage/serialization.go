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
	"errors"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/qabot/core"
)

// Record layout: Id, Question, Answer, Source (strings), CreatedAt (unix
// micros, 0 for unset), then the embedding as a float32 count followed by
// the raw values. The embedding tail is kept undecoded until it is needed.

// EncodedVector is a mus-encoded embedding that is decoded on demand.
type EncodedVector []byte

var _ core.Embedding = EncodedVector(nil)

// Vector decodes the embedding. Truncated or corrupt data reports
// core.ErrRecordParse; a zero-length embedding reports core.ErrMissingEmbedding.
func (e EncodedVector) Vector() (core.Vector, error) {
	count, n, err := varint.Uint64.Unmarshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding length: %w", core.ErrRecordParse, err)
	}
	if count == 0 {
		return nil, core.ErrMissingEmbedding
	}
	bs := e[n:]
	if count > uint64(len(bs))/4 {
		return nil, fmt.Errorf("%w: %w: want %d values, have %d bytes", core.ErrRecordParse, ErrTruncatedData, count, len(bs))
	}
	vec := make(core.Vector, count)
	for i := range vec {
		v, m, err := raw.Float32.Unmarshal(bs)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding value %d: %w", core.ErrRecordParse, i, err)
		}
		vec[i] = v
		bs = bs[m:]
	}
	return vec, nil
}

// MarshalVector encodes a vector in the EncodedVector layout.
func MarshalVector(vec core.Vector) EncodedVector {
	size := varint.Uint64.Size(uint64(len(vec)))
	for _, v := range vec {
		size += raw.Float32.Size(v)
	}
	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(len(vec)), buf)
	for _, v := range vec {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// MarshalQARecord serializes a QARecord to bytes.
// A nil embedding is stored as an empty one.
func MarshalQARecord(record *core.QARecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", ErrSerializationFailed)
	}

	var embedding EncodedVector
	switch e := record.Embedding.(type) {
	case nil:
		embedding = MarshalVector(nil)
	case EncodedVector:
		embedding = e
	default:
		vec, err := e.Vector()
		if err != nil && !errors.Is(err, core.ErrMissingEmbedding) {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		embedding = MarshalVector(vec)
	}

	created := int64(0)
	if !record.Metadata.CreatedAt.IsZero() {
		created = record.Metadata.CreatedAt.UnixMicro()
	}

	size := ord.String.Size(record.Id) +
		ord.String.Size(record.Question) +
		ord.String.Size(record.Answer) +
		ord.String.Size(record.Metadata.Source) +
		varint.Int64.Size(created) +
		len(embedding)

	buf := make([]byte, size)
	n := ord.String.Marshal(record.Id, buf)
	n += ord.String.Marshal(record.Question, buf[n:])
	n += ord.String.Marshal(record.Answer, buf[n:])
	n += ord.String.Marshal(record.Metadata.Source, buf[n:])
	n += varint.Int64.Marshal(created, buf[n:])
	copy(buf[n:], embedding)
	return buf, nil
}

// UnmarshalQARecord deserializes a QARecord from bytes. The returned
// record's Embedding is an EncodedVector referencing a copy of the tail of data.
func UnmarshalQARecord(data []byte) (*core.QARecord, error) {
	var (
		record core.QARecord
		n, m   int
		err    error
	)

	fields := []*string{&record.Id, &record.Question, &record.Answer, &record.Metadata.Source}
	for _, field := range fields {
		*field, m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += m
	}

	created, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: created_at: %w", ErrSerializationFailed, err)
	}
	n += m
	if created != 0 {
		record.Metadata.CreatedAt = time.UnixMicro(created).UTC()
	}

	record.Embedding = EncodedVector(append([]byte(nil), data[n:]...))
	return &record, nil
}

// UnreadableEmbedding stands in for a stored embedding that could not be
// read at all. Vector always fails with core.ErrRecordParse.
type UnreadableEmbedding struct {
	Err error
}

var _ core.Embedding = UnreadableEmbedding{}

// Vector reports the read failure.
func (u UnreadableEmbedding) Vector() (core.Vector, error) {
	if u.Err == nil {
		return nil, core.ErrRecordParse
	}
	return nil, fmt.Errorf("%w: %w", core.ErrRecordParse, u.Err)
}
