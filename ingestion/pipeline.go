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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/maintain"
	"github.com/poiesic/qabot/storage"
	"golang.org/x/time/rate"
)

// IDStrategy decides the id of a row that does not carry one.
type IDStrategy int

const (
	// IDRandom assigns a fresh random id.
	IDRandom IDStrategy = iota
	// IDFromQuestion derives the id from the question text, so re-ingesting
	// the same question overwrites the earlier record.
	IDFromQuestion
)

// Pipeline embeds rows and writes them to a corpus as QARecords.
type Pipeline struct {
	writer     storage.CorpusWriter
	embedder   ai.Embedder
	pool       *ants.Pool
	limiter    *rate.Limiter
	source     string
	idStrategy IDStrategy
	normalize  bool
	failFast   bool
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithSource sets the Metadata.Source tag written on every record.
func WithSource(source string) Option {
	return func(p *Pipeline) error {
		p.source = source
		return nil
	}
}

// WithIDStrategy sets how ids are assigned to rows without one.
// Default is IDRandom.
func WithIDStrategy(strategy IDStrategy) Option {
	return func(p *Pipeline) error {
		switch strategy {
		case IDRandom, IDFromQuestion:
			p.idStrategy = strategy
			return nil
		default:
			return fmt.Errorf("unknown id strategy %d", strategy)
		}
	}
}

// WithNormalize stores unit-length vectors when enabled. Default is false.
func WithNormalize(normalize bool) Option {
	return func(p *Pipeline) error {
		p.normalize = normalize
		return nil
	}
}

// WithRateLimit caps embedding calls at rps per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return func(p *Pipeline) error {
		if rps < 0 {
			return fmt.Errorf("rate limit must not be negative, got %g", rps)
		}
		if rps == 0 {
			p.limiter = nil
			return nil
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		return nil
	}
}

// WithFailFast stops submitting rows after the first failure.
func WithFailFast(failFast bool) Option {
	return func(p *Pipeline) error {
		p.failFast = failFast
		return nil
	}
}

// WithProgress sets where progress output is written.
// Default discards it.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(writer storage.CorpusWriter, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		writer:   writer,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// RowError records why a row was not stored.
type RowError struct {
	Line     int
	Question string
	Err      error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Report summarizes an Ingest run.
type Report struct {
	Total    int
	Stored   int
	Failures []RowError // Sorted by Line
	Duration time.Duration
}

// Ingest embeds and stores every row. Rows are processed concurrently and
// a failed row is recorded in the report without stopping the others,
// unless fail-fast is set. The returned error is non-nil only when ctx is
// cancelled or, with fail-fast, when a row fails.
func (p *Pipeline) Ingest(ctx context.Context, rows []Row) (*Report, error) {
	report := &Report{Total: len(rows)}

	var progress *maintain.ProgressTracker
	if p.progress != nil {
		progress = maintain.NewProgressTracker(p.progress, "Ingesting", len(rows), 10)
		progress.Start()
	}
	start := time.Now()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	fail := func(row Row, err error) {
		mu.Lock()
		report.Failures = append(report.Failures, RowError{Line: row.Line, Question: row.Question, Err: err})
		mu.Unlock()
		if p.failFast {
			cancel(fmt.Errorf("line %d: %w", row.Line, err))
		}
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if progress != nil {
				defer progress.Increment(1)
			}

			if err := p.ingestRow(ctx, row); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("row not stored", "line", row.Line, "err", err)
				fail(row, err)
				return
			}

			mu.Lock()
			report.Stored++
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			fail(row, err)
		}
	}
	wg.Wait()

	if progress != nil {
		progress.Finish()
	}
	report.Duration = time.Since(start)

	slices.SortFunc(report.Failures, func(a, b RowError) int {
		return a.Line - b.Line
	})

	p.logger.Info("ingestion finished",
		"total", report.Total,
		"stored", report.Stored,
		"failed", len(report.Failures),
		"duration", report.Duration)

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return report, cause
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (p *Pipeline) ingestRow(ctx context.Context, row Row) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	vec, err := p.embedder.EmbedText(ctx, row.Question)
	if err != nil {
		return err
	}
	if p.normalize {
		vec = maintain.NormalizeVector(vec)
	}

	record := &core.QARecord{
		Id:        p.rowID(row),
		Question:  row.Question,
		Answer:    row.Answer,
		Embedding: core.Vector(vec),
		Metadata: core.Metadata{
			CreatedAt: time.Now().UTC(),
			Source:    p.source,
		},
	}
	if err := core.ValidateQARecord(record); err != nil {
		return err
	}

	return p.writer.PutRecord(ctx, record)
}

func (p *Pipeline) rowID(row Row) string {
	if row.Id != "" {
		return row.Id
	}
	if p.idStrategy == IDFromQuestion {
		return core.IDFromContent(row.Question)
	}
	return core.NewID()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
