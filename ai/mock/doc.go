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

// Package mock provides test double implementations of ai.Embedder.
//
// The mocks allow tests to run without external embedding services and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vec, err := embedder.EmbedText(ctx, "test")
//
//	// Fixed vectors per text
//	embedder := mock.NewMockEmbedder().WithVectors(map[string][]float32{
//	    "What is Perso.ai?": {1, 0},
//	})
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return nil, errors.New("provider down")
//	    })
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
// Without injected functions, every text maps to a deterministic unit
// vector of DefaultDimensions derived from an FNV hash of the text.
package mock
