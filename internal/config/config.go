package config

import "time"

// Drop policy names accepted in configuration.
const (
	DropPolicyNotify = "notify"
	DropPolicySilent = "silent"
)

// Config holds runtime settings for the Pad CLI.
//
// Units: OnlineCheckInterval and SyncOpTimeout are time.Durations
// (e.g., 3*time.Second).
type Config struct {
	// DatabasePath locates the local SQLite file.
	DatabasePath string

	// RemoteBaseURL and RemoteAPIKey address the remote data service.
	// An empty base URL disables sync entirely.
	RemoteBaseURL string
	RemoteAPIKey  string

	// OnlineCheckInterval is how often the client probes remote
	// reachability while the queue is non-empty.
	OnlineCheckInterval time.Duration

	// SyncOpTimeout bounds each individual queue operation.
	SyncOpTimeout time.Duration

	// HealthProbeTimeout bounds a single reachability probe against the
	// remote health endpoint.
	HealthProbeTimeout time.Duration

	// MaxRetries caps delivery attempts before an operation is dropped.
	MaxRetries int

	// DropPolicy selects what happens to exhausted operations:
	// "notify" surfaces them, "silent" discards them.
	DropPolicy string

	// AnthropicAPIKey enables the remote analysis provider; empty means
	// the local heuristic only.
	AnthropicAPIKey string

	// AnalysisModel overrides the default analysis model.
	AnalysisModel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "pad.db"
	c.RemoteBaseURL = ""
	c.RemoteAPIKey = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncOpTimeout = 30 * time.Second
	c.HealthProbeTimeout = 3 * time.Second
	c.MaxRetries = 5
	c.DropPolicy = DropPolicyNotify
	c.AnthropicAPIKey = ""
	c.AnalysisModel = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
