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

package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/core"
)

// DefaultFallbackAnswer is returned when no record is similar enough.
const DefaultFallbackAnswer = "죄송합니다. 데이터셋에 해당 정보가 없습니다."

// Searcher finds the records most similar to a query embedding.
// *search.Searcher satisfies it.
type Searcher interface {
	Search(ctx context.Context, query core.Vector) (*core.SearchOutcome, error)
}

// Response is the reply to a question.
type Response struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Similarity float64 `json:"similarity"`
	Success    bool    `json:"success"`
}

// Service answers questions from a corpus.
type Service struct {
	embedder ai.Embedder
	searcher Searcher
	fallback string
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithFallbackAnswer sets the answer returned when nothing matches.
// Default is DefaultFallbackAnswer.
func WithFallbackAnswer(answer string) Option {
	return func(s *Service) error {
		if answer == "" {
			return fmt.Errorf("fallback answer cannot be empty")
		}
		s.fallback = answer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a Service.
func NewService(embedder ai.Embedder, searcher Searcher, opts ...Option) (*Service, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	s := &Service{
		embedder: embedder,
		searcher: searcher,
		fallback: DefaultFallbackAnswer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "answer")

	return s, nil
}

// Ask answers a single question. A question that is empty after trimming
// fails with core.ErrEmptyQuestion before any embedding call is made.
func (s *Service) Ask(ctx context.Context, question string) (*Response, error) {
	q, err := core.NormalizeQuestion(question)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.EmbedText(ctx, q)
	if err != nil {
		if !errors.Is(err, core.ErrEmbeddingProviderFailure) {
			err = fmt.Errorf("%w: %w", core.ErrEmbeddingProviderFailure, err)
		}
		return nil, err
	}

	outcome, err := s.searcher.Search(ctx, core.Vector(vec))
	if err != nil {
		return nil, err
	}

	if !outcome.Found {
		s.logger.Info("no similar question found", "question", q)
		return &Response{
			Question: q,
			Answer:   s.fallback,
			Success:  false,
		}, nil
	}

	best := outcome.Best
	s.logger.Debug("answered question", "question", q, "match", best.Id, "similarity", best.Similarity)
	return &Response{
		Question:   q,
		Answer:     best.Answer,
		Similarity: roundSimilarity(best.Similarity),
		Success:    true,
	}, nil
}

func roundSimilarity(s float64) float64 {
	return math.Round(s*100) / 100
}
