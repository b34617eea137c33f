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
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/poiesic/qabot/search")

// Searcher finds the corpus records most similar to a query embedding.
// A Searcher holds no mutable state and is safe for concurrent use.
type Searcher struct {
	corpus    storage.CorpusReader
	threshold Threshold
	topK      int
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithThreshold sets the minimum similarity for a record to become a candidate.
// Must be within [-1, 1]. Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) error {
		t := Threshold(threshold)
		if !t.valid() {
			return fmt.Errorf("%w: threshold %v outside [-1, 1]", ErrInvalidOption, threshold)
		}
		s.threshold = t
		return nil
	}
}

// WithTopK sets how many ranked candidates a search returns.
// Zero means no limit. Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k < 0 {
			return fmt.Errorf("%w: top-k %d is negative", ErrInvalidOption, k)
		}
		s.topK = k
		return nil
	}
}

// NewSearcher creates a new searcher over corpus.
func NewSearcher(corpus storage.CorpusReader, opts ...Option) (*Searcher, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}

	s := &Searcher{
		corpus:    corpus,
		threshold: DefaultThreshold,
		topK:      DefaultTopK,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Threshold returns the configured similarity threshold.
func (s *Searcher) Threshold() Threshold {
	return s.threshold
}

// TopK returns the configured result limit.
func (s *Searcher) TopK() int {
	return s.topK
}

// Search scores every corpus record against query and returns the best matches.
func (s *Searcher) Search(ctx context.Context, query core.Vector) (*core.SearchOutcome, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with a monitor that receives callbacks as the
// search progresses.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query core.Vector, monitor SearchMonitor) (*core.SearchOutcome, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if len(query) == 0 {
		return nil, core.ErrEmptyEmbedding
	}

	ctx, span := tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.Int("query.dimensions", len(query)),
		attribute.Float64("search.threshold", float64(s.threshold)),
		attribute.Int("search.top_k", s.topK),
	))
	defer span.End()

	monitor.Start(query)

	records, err := s.corpus.FetchAllRecords(ctx)
	if err != nil {
		s.logger.Error("error fetching corpus", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "corpus unavailable")
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}
	monitor.AfterCorpusFetch(len(records))

	candidates := make([]core.Candidate, 0, len(records))
	skipped := 0
	for _, record := range records {
		if record == nil {
			continue
		}

		score, err := s.score(query, record)
		if err != nil {
			skipped++
			s.logger.Warn("skipping record", "id", record.Id, "err", err)
			monitor.RecordSkipped(record.Id, err)
			continue
		}

		if !s.threshold.Accept(score) {
			continue
		}

		candidate := core.Candidate{
			Id:         record.Id,
			Question:   record.Question,
			Answer:     record.Answer,
			Similarity: score,
		}
		monitor.CandidateAccepted(candidate)
		candidates = append(candidates, candidate)
	}

	outcome := &core.SearchOutcome{Ranked: Rank(candidates, s.topK)}
	if len(outcome.Ranked) > 0 {
		outcome.Found = true
		best := outcome.Ranked[0]
		outcome.Best = &best
	} else {
		outcome.Ranked = []core.Candidate{}
	}

	span.SetAttributes(
		attribute.Int("corpus.size", len(records)),
		attribute.Int("corpus.skipped", skipped),
		attribute.Bool("search.found", outcome.Found),
	)
	s.logger.Debug("search complete",
		"records", len(records),
		"skipped", skipped,
		"candidates", len(candidates),
		"found", outcome.Found)
	monitor.Finish(outcome)

	return outcome, nil
}

func (s *Searcher) score(query core.Vector, record *core.QARecord) (float64, error) {
	if record.Embedding == nil {
		return 0, core.ErrMissingEmbedding
	}
	vec, err := record.Embedding.Vector()
	if err != nil {
		return 0, err
	}
	return Cosine(query, vec)
}
