package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/antonpav/pad/internal/flagx"
	"github.com/antonpav/pad/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	RemoteBaseURL       string         `json:"remote_base_url"`
	RemoteAPIKey        string         `json:"remote_api_key"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncOpTimeout       timex.Duration `json:"sync_op_timeout"`
	HealthProbeTimeout  timex.Duration `json:"health_probe_timeout"`
	MaxRetries          int            `json:"max_retries"`
	DropPolicy          string         `json:"drop_policy"`
	AnthropicAPIKey     string         `json:"anthropic_api_key"`
	AnalysisModel       string         `json:"analysis_model"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Fields absent from the file keep their current values. Panics on read
// or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RemoteBaseURL != "" {
		cfg.RemoteBaseURL = jc.RemoteBaseURL
	}
	if jc.RemoteAPIKey != "" {
		cfg.RemoteAPIKey = jc.RemoteAPIKey
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncOpTimeout.Duration != 0 {
		cfg.SyncOpTimeout = time.Duration(jc.SyncOpTimeout.Duration)
	}
	if jc.HealthProbeTimeout.Duration != 0 {
		cfg.HealthProbeTimeout = time.Duration(jc.HealthProbeTimeout.Duration)
	}
	if jc.MaxRetries != 0 {
		cfg.MaxRetries = jc.MaxRetries
	}
	if jc.DropPolicy != "" {
		cfg.DropPolicy = jc.DropPolicy
	}
	if jc.AnthropicAPIKey != "" {
		cfg.AnthropicAPIKey = jc.AnthropicAPIKey
	}
	if jc.AnalysisModel != "" {
		cfg.AnalysisModel = jc.AnalysisModel
	}
}
