package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/relate15/internal/flagx"
	"github.com/dmitrijs2005/relate15/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields tell an
// absent key from a zero value; only present keys override the Config.
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	SocketURL           *string         `json:"socket_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	ReconnectAttempts   *int            `json:"reconnect_attempts"`
	ReconnectDelay      *timex.Duration `json:"reconnect_delay"`
	CredentialScope     *string         `json:"credential_scope"`
	DatabasePath        *string         `json:"database_path"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c or -config. Without that flag it does nothing.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.SocketURL, jc.SocketURL)
	setString(&cfg.CredentialScope, jc.CredentialScope)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ReconnectDelay != nil {
		cfg.ReconnectDelay = jc.ReconnectDelay.Duration
	}
	if jc.ReconnectAttempts != nil {
		cfg.ReconnectAttempts = *jc.ReconnectAttempts
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
