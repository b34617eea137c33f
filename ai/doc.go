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

// Package ai provides the embedding abstraction used by qabot.
//
// Both the query path and ingestion embed question text through the
// Embedder interface, so the same model produces stored and query vectors.
//
// # Implementation Packages
//
//   - ai/bedrock: Amazon Bedrock Titan text embeddings
//   - ai/openai: OpenAI-compatible embedding APIs via langchaingo
//   - ai/mock: deterministic test doubles
//
// # Constructor Return Type Pattern
//
// Public constructors (bedrock.NewEmbedder, openai.NewEmbedder) return the
// ai.Embedder interface. Test utility constructors (mock.NewMockEmbedder)
// return CONCRETE types so tests can inject behavior and assert on calls.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithProvider(ai.ProviderBedrock), ai.WithRegion("ap-northeast-1"))
//	embedder, err := bedrock.NewEmbedder(client, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := embedder.EmbedText(ctx, "What is Perso.ai?")
package ai
