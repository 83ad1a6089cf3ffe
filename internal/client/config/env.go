package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/relate15/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "RELATE15_"

// parseEnv overlays Config with RELATE15_* environment variables.
//
// A dotenv file is loaded first: the one named by -e/-env, otherwise ./.env
// when it exists. Variables already present in the process environment are
// not overwritten by the file.
//
// Panics on an unreadable dotenv file or a malformed value.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFilePath(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}

	lookupString("API_URL", &cfg.APIBaseURL)
	lookupString("SOCKET_URL", &cfg.SocketURL)
	lookupDuration("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	lookupDuration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	lookupInt("RECONNECT_ATTEMPTS", &cfg.ReconnectAttempts)
	lookupDuration("RECONNECT_DELAY", &cfg.ReconnectDelay)
	lookupString("CREDENTIAL_SCOPE", &cfg.CredentialScope)
	lookupString("DB_PATH", &cfg.DatabasePath)
	lookupString("LOG_LEVEL", &cfg.LogLevel)
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}

func lookupInt(name string, dst *int) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = n
}
