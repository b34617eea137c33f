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

// Package search implements the similarity search and ranking engine.
//
// A search scores every record in the corpus against a query embedding with
// cosine similarity, keeps the records whose score clears a threshold, and
// ranks the survivors best first:
//
//	Cosine -> Threshold.Accept -> Rank -> SearchOutcome
//
// The engine does a full linear scan per query. That is fine for a corpus of
// a few hundred records and is the scaling ceiling of this design.
//
// Records with missing or malformed embeddings, or embeddings whose length
// differs from the query's, are logged and skipped. Only a failure to read
// the corpus aborts a search.
package search
