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

// Package storage defines the corpus store abstraction used by qabot.
//
// The query path only ever reads the corpus, so it depends on the narrow
// CorpusReader interface. Ingestion depends on CorpusWriter, and corpus
// maintenance on the full CorpusRepository.
//
// # Backends
//
//   - storage/dynamo: Amazon DynamoDB table, the production store
//   - storage/badger: embedded BadgerDB, for local use and tests
//
// Create an in-memory corpus for tests:
//
//	corpus, err := badger.NewMemoryCorpus()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer corpus.Close()
//
// # Embedding decoding
//
// Stores return records whose Embedding is decoded lazily. A stored value
// that cannot be turned into numbers is reported by Embedding.Vector as
// core.ErrRecordParse, so one bad record never fails a whole fetch.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
package storage
