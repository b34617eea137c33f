// Package config loads qabot settings.
//
// Settings come from three layers, later ones winning: built-in defaults,
// an optional YAML file, and environment variables (optionally seeded from
// a .env file). Command-line flags are applied on top by cmd/qabot.
//
// Example config.yaml:
//
//	region: ap-northeast-1
//	embedder:
//	  provider: bedrock
//	  model_id: amazon.titan-embed-text-v1
//	store:
//	  type: dynamodb
//	  table: qa-documents
//	search:
//	  threshold: 0.70
//	  top_k: 3
package config
