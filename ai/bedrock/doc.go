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

// Package bedrock implements ai.Embedder with Amazon Titan text embedding
// models on Amazon Bedrock.
//
// # Usage
//
//	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	embedder, err := bedrock.NewEmbedder(bedrockruntime.NewFromConfig(awsCfg), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := embedder.EmbedText(ctx, "What is Perso.ai?")
package bedrock
