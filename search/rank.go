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

package search

import (
	"cmp"
	"slices"

	"github.com/poiesic/qabot/core"
)

// DefaultTopK is the number of ranked candidates kept by default.
const DefaultTopK = 3

// Rank returns cands ordered by similarity descending, truncated to k.
// Candidates with equal similarity keep their input order. k <= 0 keeps
// every candidate. cands is not modified.
func Rank(cands []core.Candidate, k int) []core.Candidate {
	ranked := slices.Clone(cands)
	slices.SortStableFunc(ranked, func(a, b core.Candidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
