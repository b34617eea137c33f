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

package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names an embedding backend.
type Provider string

const (
	// ProviderBedrock embeds with Amazon Bedrock.
	ProviderBedrock Provider = "bedrock"
	// ProviderOpenAI embeds with an OpenAI-compatible API.
	ProviderOpenAI Provider = "openai"
)

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the embedding backend.
	// Default: bedrock
	Provider Provider

	// Region is the AWS region for Bedrock.
	// Example: "ap-northeast-1"
	Region string

	// ModelID is the model identifier to use for text embeddings.
	// Example: "amazon.titan-embed-text-v1", "text-embedding-3-small"
	ModelID string

	// Host is the base URL for OpenAI-compatible APIs.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Token is the API key for OpenAI-compatible APIs.
	// Local servers that don't require authentication accept any value.
	Token string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding backend.
func WithProvider(p Provider) ConfigOption {
	return func(c *Config) {
		c.Provider = p
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) ConfigOption {
	return func(c *Config) {
		c.Region = region
	}
}

// WithModelID sets the embedding model identifier.
func WithModelID(model string) ConfigOption {
	return func(c *Config) {
		c.ModelID = model
	}
}

// WithHost sets the OpenAI-compatible service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the OpenAI-compatible API key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// Default model identifiers per provider.
const (
	DefaultBedrockModel = "amazon.titan-embed-text-v1"
	DefaultOpenAIModel  = "text-embedding-3-small"
	DefaultRegion       = "ap-northeast-1"
	DefaultHost         = "http://localhost:11434/v1"
)

// DefaultConfig returns a Config for Titan embeddings on Bedrock.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderBedrock,
		Region:   DefaultRegion,
		ModelID:  DefaultBedrockModel,
		Host:     DefaultHost,
		Token:    "none",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithHost("http://localhost:11434/v1"),
//	    WithModelID("nomic-embed-text"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.ModelID == "" {
		return errors.New("ai config: ModelID is required")
	}
	switch c.Provider {
	case ProviderBedrock:
		if c.Region == "" {
			return errors.New("ai config: Region is required for bedrock")
		}
	case ProviderOpenAI:
		if c.Host == "" {
			return errors.New("ai config: Host is required for openai")
		}
	default:
		return fmt.Errorf("ai config: unknown provider %q", c.Provider)
	}
	return nil
}
