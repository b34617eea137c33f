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

package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// NewID returns a random, globally unique record identifier.
func NewID() string {
	return uuid.NewString()
}

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Vector is an embedding: an ordered, fixed-length sequence of floats.
type Vector []float32

// Embedding is the stored form of a record's vector. Stores may decode it
// lazily, so a malformed value is only discovered when Vector is called.
type Embedding interface {
	Vector() (Vector, error)
}

var _ Embedding = Vector(nil)

// Vector returns v itself. An empty vector reports ErrMissingEmbedding.
func (v Vector) Vector() (Vector, error) {
	if len(v) == 0 {
		return nil, ErrMissingEmbedding
	}
	return v, nil
}

// Metadata is optional bookkeeping attached to a record at ingestion time.
type Metadata struct {
	CreatedAt time.Time // When the record was written
	Source    string    // Free-form tag, e.g. "perso.ai" or "test"
}

// QARecord is one stored question/answer pair.
// Records are written once by ingestion and never mutated by the query path.
type QARecord struct {
	Id        string
	Question  string
	Answer    string
	Embedding Embedding // Embedding of Question; nil when the store has none
	Metadata  Metadata
}

// Candidate is a record that cleared the similarity threshold during a search.
type Candidate struct {
	Id         string
	Question   string
	Answer     string
	Similarity float64
}

// SearchOutcome is the result of a single search.
type SearchOutcome struct {
	Found  bool        // True iff at least one candidate cleared the threshold
	Best   *Candidate  // Top-ranked candidate, nil when Found is false
	Ranked []Candidate // Up to K candidates, best first
}
