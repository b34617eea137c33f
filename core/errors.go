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

import "errors"

// Systemic errors. These abort the operation that hit them.
var (
	// ErrEmbeddingProviderFailure indicates the embedding call failed
	// (network, auth or malformed response).
	ErrEmbeddingProviderFailure = errors.New("embedding provider failure")

	// ErrCorpusUnavailable indicates the corpus store could not be read.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrEmptyQuestion indicates the caller supplied no question text.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyEmbedding indicates a query embedding with no dimensions.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")
)

// Per-record errors. A search logs and skips the record that produced one.
var (
	// ErrRecordParse indicates a stored embedding could not be decoded into numbers.
	ErrRecordParse = errors.New("record parse error")

	// ErrMissingEmbedding indicates a stored record has no embedding.
	ErrMissingEmbedding = errors.New("record has no embedding")

	// ErrIncompatibleDimension indicates two vectors of different lengths were compared.
	ErrIncompatibleDimension = errors.New("incompatible dimension")
)

// Domain validation errors
var (
	// ErrInvalidRecord indicates a QARecord failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyID indicates the Id field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyAnswer indicates the Answer field is empty.
	ErrEmptyAnswer = errors.New("answer cannot be empty")
)
