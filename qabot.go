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

// Package qabot wires configuration into a ready-to-use question answering
// stack: an embedder, a corpus store and the services built on them.
package qabot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/ai/bedrock"
	"github.com/poiesic/qabot/ai/openai"
	"github.com/poiesic/qabot/answer"
	"github.com/poiesic/qabot/config"
	"github.com/poiesic/qabot/ingestion"
	"github.com/poiesic/qabot/maintain"
	"github.com/poiesic/qabot/search"
	"github.com/poiesic/qabot/storage"
	"github.com/poiesic/qabot/storage/badger"
	"github.com/poiesic/qabot/storage/dynamo"
)

// App holds the long-lived collaborators of a qabot process.
type App struct {
	config   *config.Config
	corpus   storage.CorpusRepository
	embedder ai.Embedder
	logger   *slog.Logger

	awsOnce sync.Once
	awsCfg  aws.Config
	awsErr  error
	s3      ingestion.S3Getter
}

// Option configures an App.
type Option func(*App)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithEmbedder uses embedder instead of building one from the config.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(a *App) {
		a.embedder = embedder
	}
}

// WithCorpus uses corpus instead of opening the configured store.
// The App takes ownership and closes it.
func WithCorpus(corpus storage.CorpusRepository) Option {
	return func(a *App) {
		a.corpus = corpus
	}
}

// WithS3 sets the client used to read s3:// ingestion sources.
func WithS3(client ingestion.S3Getter) Option {
	return func(a *App) {
		a.s3 = client
	}
}

// Open validates cfg and builds the embedder and corpus store it names.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	a := &App{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := cfg.Validate(); err != nil {
		a.closeCorpus()
		return nil, err
	}

	if a.embedder == nil {
		embedder, err := a.newEmbedder(ctx)
		if err != nil {
			a.closeCorpus()
			return nil, err
		}
		a.embedder = embedder
	}

	if a.corpus == nil {
		corpus, err := a.openCorpus(ctx)
		if err != nil {
			return nil, err
		}
		a.corpus = corpus
	}

	a.logger.Debug("qabot opened",
		"embedder", cfg.Embedder.Provider,
		"store", cfg.Store.Type,
		"threshold", cfg.Search.Threshold,
		"top_k", cfg.Search.TopK)
	return a, nil
}

func (a *App) newEmbedder(ctx context.Context) (ai.Embedder, error) {
	aiCfg := a.config.AIConfig()
	switch aiCfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewEmbedder(aiCfg)
	case ai.ProviderBedrock:
		awsCfg, err := a.aws(ctx)
		if err != nil {
			return nil, err
		}
		return bedrock.NewEmbedder(bedrockruntime.NewFromConfig(awsCfg), aiCfg)
	default:
		return nil, fmt.Errorf("unknown embedder %q", aiCfg.Provider)
	}
}

func (a *App) openCorpus(ctx context.Context) (storage.CorpusRepository, error) {
	switch a.config.Store.Type {
	case config.StoreBadger:
		return badger.Open(a.config.Store.BadgerPath, a.logger)
	case config.StoreDynamoDB:
		awsCfg, err := a.aws(ctx)
		if err != nil {
			return nil, err
		}
		corpus, err := dynamo.New(dynamodb.NewFromConfig(awsCfg),
			dynamo.WithTable(a.config.Store.Table),
			dynamo.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		return corpus, nil
	default:
		return nil, fmt.Errorf("unknown store %q", a.config.Store.Type)
	}
}

// aws loads the shared AWS configuration once.
func (a *App) aws(ctx context.Context) (aws.Config, error) {
	a.awsOnce.Do(func() {
		a.awsCfg, a.awsErr = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.config.Region))
		if a.awsErr != nil {
			a.awsErr = fmt.Errorf("failed to load aws config: %w", a.awsErr)
		}
	})
	return a.awsCfg, a.awsErr
}

func (a *App) closeCorpus() {
	if a.corpus == nil {
		return
	}
	if err := a.corpus.Close(); err != nil {
		a.logger.Error("error closing corpus", "err", err)
	}
}

// Close releases the corpus store.
func (a *App) Close() error {
	if a.corpus == nil {
		return nil
	}
	if err := a.corpus.Close(); err != nil {
		a.logger.Error("error closing corpus", "err", err)
		return err
	}
	return nil
}

// Config returns the configuration the App was opened with.
func (a *App) Config() *config.Config {
	return a.config
}

// Corpus returns the corpus store.
func (a *App) Corpus() storage.CorpusRepository {
	return a.corpus
}

// Embedder returns the embedding provider.
func (a *App) Embedder() ai.Embedder {
	return a.embedder
}

// NewSearcher creates a searcher using the configured threshold and top-k.
// opts are applied after the configured values.
func (a *App) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithLogger(a.logger),
		search.WithThreshold(a.config.Search.Threshold),
		search.WithTopK(a.config.Search.TopK),
	}
	return search.NewSearcher(a.corpus, append(base, opts...)...)
}

// NewService creates an answer service over a configured searcher.
func (a *App) NewService(opts ...answer.Option) (*answer.Service, error) {
	searcher, err := a.NewSearcher()
	if err != nil {
		return nil, err
	}
	base := []answer.Option{
		answer.WithLogger(a.logger),
		answer.WithFallbackAnswer(a.config.FallbackAnswer),
	}
	return answer.NewService(a.embedder, searcher, append(base, opts...)...)
}

// NewIngestionPipeline creates a pipeline that writes to the corpus.
func (a *App) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{ingestion.WithLogger(a.logger)}
	return ingestion.NewPipeline(a.corpus, a.embedder, append(base, opts...)...)
}

// NewPurger creates a purger over the corpus.
func (a *App) NewPurger(opts ...maintain.PurgeOption) (*maintain.Purger, error) {
	base := []maintain.PurgeOption{maintain.WithPurgeLogger(a.logger)}
	return maintain.NewPurger(a.corpus, append(base, opts...)...)
}

// NewReembedder creates a reembedder over the corpus and embedder.
func (a *App) NewReembedder(opts ...maintain.Option) (*maintain.Reembedder, error) {
	base := []maintain.Option{maintain.WithLogger(a.logger)}
	return maintain.NewReembedder(a.corpus, a.embedder, append(base, opts...)...)
}

// LoadRows reads ingestion rows from a local file or an s3:// location.
func (a *App) LoadRows(ctx context.Context, location string, opts ...ingestion.ReadOption) ([]ingestion.Row, error) {
	client, err := a.s3Client(ctx, location)
	if err != nil {
		return nil, err
	}
	return ingestion.Load(ctx, location, client, opts...)
}

func (a *App) s3Client(ctx context.Context, location string) (ingestion.S3Getter, error) {
	if a.s3 != nil {
		return a.s3, nil
	}
	if !strings.HasPrefix(location, "s3://") {
		return nil, nil
	}
	awsCfg, err := a.aws(ctx)
	if err != nil {
		return nil, errors.Join(ingestion.ErrS3Required, err)
	}
	a.s3 = s3.NewFromConfig(awsCfg)
	return a.s3, nil
}
