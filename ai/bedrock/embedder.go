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

package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/core"
)

// Client is the subset of the Bedrock runtime API the embedder uses.
type Client interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

var _ Client = (*bedrockruntime.Client)(nil)

// titanRequest is the Titan text embedding request body.
type titanRequest struct {
	InputText string `json:"inputText"`
}

// titanResponse is the Titan text embedding response body.
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embedder implements ai.Embedder using Titan embeddings on Bedrock.
type Embedder struct {
	client  Client
	modelID string
	logger  *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(client Client, config *ai.Config) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("bedrock client required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider != ai.ProviderBedrock {
		return nil, fmt.Errorf("bedrock embedder: provider is %q", config.Provider)
	}

	return &Embedder{
		client:  client,
		modelID: config.ModelID,
		logger:  slog.Default().With("component", "bedrock-embedder", "model", config.ModelID),
	}, nil
}

// NewEmbedder creates a new embedder using the provided client and configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(client Client, config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(client, config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", core.ErrEmbeddingProviderFailure, err)
	}

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingProviderFailure, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		e.logger.Error("malformed embedding response", "err", err)
		return nil, fmt.Errorf("%w: decoding response: %w", core.ErrEmbeddingProviderFailure, err)
	}
	if len(resp.Embedding) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, fmt.Errorf("%w: empty embedding in response", core.ErrEmbeddingProviderFailure)
	}

	e.logger.Debug("embedding generated", "dimensions", len(resp.Embedding), "tokens", resp.InputTextTokenCount)
	return resp.Embedding, nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Titan text models take one input per call, so texts are embedded in turn.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}
