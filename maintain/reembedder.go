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

package maintain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
)

// Reembedder regenerates the embedding of every record in a corpus.
type Reembedder struct {
	repo           storage.CorpusRepository
	embedder       ai.Embedder
	batchSize      int
	reportInterval int
	normalize      bool
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithBatchSize sets how many questions are embedded per EmbedTexts call.
// Default is 50.
func WithBatchSize(size int) Option {
	return func(r *Reembedder) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		r.batchSize = size
		return nil
	}
}

// WithReportInterval sets how often progress is reported, in records.
// Default is 50.
func WithReportInterval(n int) Option {
	return func(r *Reembedder) error {
		r.reportInterval = n
		return nil
	}
}

// WithNormalize stores unit-length vectors when enabled.
func WithNormalize(normalize bool) Option {
	return func(r *Reembedder) error {
		r.normalize = normalize
		return nil
	}
}

// WithProgress sets where progress output is written.
// Default discards it.
func WithProgress(w io.Writer) Option {
	return func(r *Reembedder) error {
		r.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReembedder creates a new reembedder.
func NewReembedder(repo storage.CorpusRepository, embedder ai.Embedder, opts ...Option) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Reembedder{
		repo:           repo,
		embedder:       embedder,
		batchSize:      50,
		reportInterval: 50,
		progress:       io.Discard,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.progress == nil {
		r.progress = io.Discard
	}
	r.logger = r.logger.With("component", "reembedder")
	return r, nil
}

// Report summarizes a reembedding run.
type Report struct {
	Total    int      // Records in the corpus
	Updated  int      // Records written with a new embedding
	Skipped  []string // Records with no question text
	Failed   []string // Records whose write failed
	Duration time.Duration
}

// Run executes the reembedding operation.
// Embedding failures abort the run. Records whose write fails are listed in
// the report and the run continues.
func (r *Reembedder) Run(ctx context.Context) (*Report, error) {
	records, err := r.repo.FetchAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}

	report := &Report{Total: len(records)}
	if len(records) == 0 {
		fmt.Fprintf(r.progress, "No records found in corpus (0 records)\n")
		return report, nil
	}

	var work []*core.QARecord
	for _, record := range records {
		if record == nil {
			continue
		}
		if strings.TrimSpace(record.Question) == "" {
			report.Skipped = append(report.Skipped, record.Id)
			continue
		}
		work = append(work, record)
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records (batch size: %d)\n",
		len(work), r.batchSize)

	tracker := NewProgressTracker(r.progress, "Reembedding", len(work), r.reportInterval)
	tracker.Start()

	for start := 0; start < len(work); start += r.batchSize {
		end := min(start+r.batchSize, len(work))
		batch := work[start:end]

		if err := r.processBatch(ctx, batch, report); err != nil {
			report.Duration = tracker.Elapsed()
			return report, err
		}
		tracker.Update(end)
	}

	tracker.Finish()
	report.Duration = tracker.Elapsed()

	fmt.Fprintf(r.progress, "Reembedding complete. Updated %d records in %v (%d failed, %d skipped)\n",
		report.Updated, report.Duration.Round(time.Millisecond), len(report.Failed), len(report.Skipped))

	return report, nil
}

func (r *Reembedder) processBatch(ctx context.Context, batch []*core.QARecord, report *Report) error {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Question
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("%w: embedding count mismatch: expected %d, got %d",
			core.ErrEmbeddingProviderFailure, len(batch), len(embeddings))
	}

	for i, record := range batch {
		vec := embeddings[i]
		if r.normalize {
			vec = NormalizeVector(vec)
		}

		updated := *record
		updated.Embedding = core.Vector(vec)
		if err := r.repo.PutRecord(ctx, &updated); err != nil {
			r.logger.Error("failed to write record", "id", record.Id, "err", err)
			report.Failed = append(report.Failed, record.Id)
			continue
		}
		report.Updated++
	}
	return nil
}
