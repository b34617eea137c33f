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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/qabot"
	"github.com/poiesic/qabot/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qabot",
		Usage: "Answer questions from a corpus of known question/answer pairs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log output format (text, json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"QABOT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file loaded before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Corpus store (dynamodb, badger)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "DynamoDB table name",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region",
			},
			&cli.StringFlag{
				Name:  "embedder",
				Usage: "Embedding provider (bedrock, openai)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "OpenAI-compatible embedding service URL",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Minimum cosine similarity for a match",
			},
			&cli.IntFlag{
				Name:  "top-k",
				Usage: "Number of ranked candidates to keep (0 for all)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			serveCommand(),
			askCommand(),
			ingestCommand(),
			seedCommand(),
			purgeCommand(),
			reembedCommand(),
		},
	}
}

func setupLogger(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return err
	}

	// Get log level from flag, falling back to the environment
	levelStr := c.String("log-level")
	if !c.IsSet("log-level") {
		if v, ok := os.LookupEnv("QABOT_LOG_LEVEL"); ok && v != "" {
			levelStr = v
		}
	}
	levelStr = strings.ToLower(levelStr)

	level, err := config.ParseLogLevel(levelStr)
	if err != nil || levelStr == "" {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(c.String("log-format")) {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.String("log-format"))
	}
	slog.SetDefault(slog.New(handler))

	return nil
}

// loadConfig layers defaults, the config file, the environment and global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setString("store", &cfg.Store.Type)
	setString("db", &cfg.Store.BadgerPath)
	setString("table", &cfg.Store.Table)
	setString("region", &cfg.Region)
	setString("embedder", &cfg.Embedder.Provider)
	setString("embedding-model", &cfg.Embedder.ModelID)
	setString("embedding-host", &cfg.Embedder.BaseURL)
	if c.IsSet("db") && !c.IsSet("store") {
		cfg.Store.Type = config.StoreBadger
	}
	if c.IsSet("threshold") {
		cfg.Search.Threshold = c.Float64("threshold")
	}
	if c.IsSet("top-k") {
		cfg.Search.TopK = c.Int("top-k")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openApp(c *cli.Context) (*qabot.App, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	app, err := qabot.Open(c.Context, cfg, qabot.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open qabot: %w", err)
	}
	return app, nil
}
