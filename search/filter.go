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

// DefaultThreshold is the minimum similarity a record needs to be a candidate.
const DefaultThreshold Threshold = 0.70

// Threshold is a minimum similarity score. A score equal to the threshold
// is accepted.
type Threshold float64

// Accept reports whether score clears the threshold.
func (t Threshold) Accept(score float64) bool {
	return score >= float64(t)
}

func (t Threshold) valid() bool {
	return t >= -1 && t <= 1
}
