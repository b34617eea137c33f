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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/qabot/ai"
	"github.com/poiesic/qabot/answer"
	"github.com/poiesic/qabot/search"
	"github.com/poiesic/qabot/storage/dynamo"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreDynamoDB = "dynamodb"
	StoreBadger   = "badger"
)

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider"`
	ModelID  string `yaml:"model_id"`
	BaseURL  string `yaml:"base_url,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// StoreConfig selects and configures the corpus store.
type StoreConfig struct {
	Type       string `yaml:"type"`
	Table      string `yaml:"table"`
	BadgerPath string `yaml:"badger_path,omitempty"`
}

// SearchConfig tunes the search engine.
type SearchConfig struct {
	Threshold float64 `yaml:"threshold"`
	TopK      int     `yaml:"top_k"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Config is the root application configuration.
type Config struct {
	Region         string         `yaml:"region"`
	Embedder       EmbedderConfig `yaml:"embedder"`
	Store          StoreConfig    `yaml:"store"`
	Search         SearchConfig   `yaml:"search"`
	Server         ServerConfig   `yaml:"server"`
	FallbackAnswer string         `yaml:"fallback_answer"`
	LogLevel       string         `yaml:"log_level"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Region: ai.DefaultRegion,
		Embedder: EmbedderConfig{
			Provider: string(ai.ProviderBedrock),
			ModelID:  ai.DefaultBedrockModel,
		},
		Store: StoreConfig{
			Type:  StoreDynamoDB,
			Table: dynamo.DefaultTable,
		},
		Search: SearchConfig{
			Threshold: float64(search.DefaultThreshold),
			TopK:      search.DefaultTopK,
		},
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "*",
		},
		FallbackAnswer: answer.DefaultFallbackAnswer,
		LogLevel:       "info",
	}
}

// Load reads a config from path on top of the defaults.
// A missing file, or an empty path, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv. Variables that are unset leave the field untouched.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	str("BEDROCK_REGION", &c.Region)
	str("QABOT_EMBEDDER", &c.Embedder.Provider)
	str("BEDROCK_MODEL_ID", &c.Embedder.ModelID)
	str("OPENAI_BASE_URL", &c.Embedder.BaseURL)
	str("OPENAI_API_KEY", &c.Embedder.APIKey)
	str("QABOT_STORE", &c.Store.Type)
	str("DYNAMODB_TABLE", &c.Store.Table)
	str("QABOT_BADGER_PATH", &c.Store.BadgerPath)
	str("QABOT_FALLBACK_ANSWER", &c.FallbackAnswer)
	str("QABOT_ADDR", &c.Server.Addr)
	str("QABOT_CORS_ORIGIN", &c.Server.CORSOrigin)
	str("QABOT_LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("SIMILARITY_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SIMILARITY_THRESHOLD: %w", err)
		}
		c.Search.Threshold = f
	}
	if v, ok := lookup("TOP_K"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOP_K: %w", err)
		}
		c.Search.TopK = n
	}
	return nil
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.AIConfig().Validate(); err != nil {
		return err
	}

	switch c.Store.Type {
	case StoreDynamoDB:
		if c.Store.Table == "" {
			return errors.New("config: store.table is required for dynamodb")
		}
	case StoreBadger:
		if c.Store.BadgerPath == "" {
			return errors.New("config: store.badger_path is required for badger")
		}
	default:
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}

	if c.Search.Threshold < -1 || c.Search.Threshold > 1 {
		return fmt.Errorf("config: search.threshold %v outside [-1, 1]", c.Search.Threshold)
	}
	if c.Search.TopK < 0 {
		return fmt.Errorf("config: search.top_k %d is negative", c.Search.TopK)
	}
	if c.FallbackAnswer == "" {
		return errors.New("config: fallback_answer cannot be empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AIConfig returns the embedding provider settings.
func (c *Config) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithProvider(ai.Provider(c.Embedder.Provider)),
		ai.WithRegion(c.Region),
	}
	if ai.Provider(strings.ToLower(c.Embedder.Provider)) == ai.ProviderOpenAI {
		model := c.Embedder.ModelID
		if model == "" || model == ai.DefaultBedrockModel {
			model = ai.DefaultOpenAIModel
		}
		opts = append(opts, ai.WithModelID(model))
	} else if c.Embedder.ModelID != "" {
		opts = append(opts, ai.WithModelID(c.Embedder.ModelID))
	}
	if c.Embedder.BaseURL != "" {
		opts = append(opts, ai.WithHost(c.Embedder.BaseURL))
	}
	if c.Embedder.APIKey != "" {
		opts = append(opts, ai.WithToken(c.Embedder.APIKey))
	}

	cfg := ai.NewConfig(opts...)
	cfg.Normalize()
	return cfg
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", level)
	}
}
