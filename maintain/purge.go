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
	"log/slog"
	"strings"

	"github.com/poiesic/qabot/core"
	"github.com/poiesic/qabot/storage"
	"golang.org/x/sync/errgroup"
)

// Selector picks records for deletion. A record matches when every set
// field matches it.
type Selector struct {
	Source   string // Exact metadata source tag
	IDPrefix string // Record id prefix, such as "test-"
}

// Empty reports whether the selector sets no criteria.
func (s Selector) Empty() bool {
	return s.Source == "" && s.IDPrefix == ""
}

// Match reports whether record is selected.
func (s Selector) Match(record *core.QARecord) bool {
	if record == nil || s.Empty() {
		return false
	}
	if s.Source != "" && record.Metadata.Source != s.Source {
		return false
	}
	if s.IDPrefix != "" && !strings.HasPrefix(record.Id, s.IDPrefix) {
		return false
	}
	return true
}

// Purger deletes selected records from a corpus.
type Purger struct {
	repo        storage.CorpusRepository
	concurrency int
	dryRun      bool
	logger      *slog.Logger
}

// PurgeOption configures a Purger.
type PurgeOption func(*Purger) error

// WithConcurrency sets how many deletes run at once. Default is 4.
func WithConcurrency(n int) PurgeOption {
	return func(p *Purger) error {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
		return nil
	}
}

// WithDryRun makes Purge count matches without deleting them.
func WithDryRun(dryRun bool) PurgeOption {
	return func(p *Purger) error {
		p.dryRun = dryRun
		return nil
	}
}

// WithPurgeLogger sets a custom logger.
// Default is slog.Default().
func WithPurgeLogger(logger *slog.Logger) PurgeOption {
	return func(p *Purger) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPurger creates a purger over repo.
func NewPurger(repo storage.CorpusRepository, opts ...PurgeOption) (*Purger, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	p := &Purger{
		repo:        repo,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "purger")
	return p, nil
}

// Purge deletes every record matched by sel and returns how many matched.
// With dry run enabled nothing is deleted.
func (p *Purger) Purge(ctx context.Context, sel Selector) (int, error) {
	if sel.Empty() {
		return 0, ErrEmptySelector
	}

	records, err := p.repo.FetchAllRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}

	var ids []string
	for _, record := range records {
		if sel.Match(record) {
			ids = append(ids, record.Id)
		}
	}

	p.logger.Info("records selected for purge",
		"selected", len(ids),
		"total", len(records),
		"source", sel.Source,
		"idPrefix", sel.IDPrefix,
		"dryRun", p.dryRun)

	if p.dryRun || len(ids) == 0 {
		return len(ids), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := p.repo.DeleteRecords(gctx, id); err != nil {
				p.logger.Error("failed to delete record", "id", id, "err", err)
				return fmt.Errorf("delete %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(ids), nil
}
