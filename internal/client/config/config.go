package config

import "time"

// Config holds runtime settings for the Relate15 CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST backend; endpoint paths are appended.
//   - SocketURL: WebSocket endpoint of the real-time channel.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline applied to each CLI command.
//   - ReconnectAttempts, ReconnectDelay: channel dial budget.
//   - CredentialScope: "durable" (SQLite) or "ephemeral" (memory).
//   - DatabasePath: SQLite file of the durable scope.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	SocketURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	ReconnectAttempts   int
	ReconnectDelay      time.Duration
	CredentialScope     string
	DatabasePath        string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://relate15-be.onrender.com"
	c.SocketURL = "wss://relate15-be.onrender.com/ws"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.ReconnectAttempts = 5
	c.ReconnectDelay = time.Second
	c.CredentialScope = "ephemeral"
	c.DatabasePath = "relate15.db"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
