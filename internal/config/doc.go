// Package config loads runtime configuration for the Pad CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the local SQLite database
//	-r string   base URL of the remote data service
//	-k string   API key for the remote data service
//	-i int      online status check interval (seconds)
//	-t int      per-operation sync timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "database_path": "pad.db",
//	  "remote_base_url": "https://example.supabase.co",
//	  "remote_api_key": "…",
//	  "online_check_interval": "3s",
//	  "sync_op_timeout": "30s",
//	  "health_probe_timeout": "3s",
//	  "max_retries": 5,
//	  "drop_policy": "notify",
//	  "anthropic_api_key": "…",
//	  "analysis_model": "claude-3-5-haiku-latest"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
