// Package config loads runtime configuration for the Relate15 CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed RELATE15_, optionally seeded from a
//     dotenv file (-e/-env, or ./.env).
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL
//	-w string   WebSocket URL
//	-i int      online status check interval (seconds)
//	-s string   credential scope (durable|ephemeral)
//	-d string   SQLite database path
//	-l string   log level
//
// # Environment
//
//	RELATE15_API_URL, RELATE15_SOCKET_URL, RELATE15_ONLINE_CHECK_INTERVAL,
//	RELATE15_REQUEST_TIMEOUT, RELATE15_RECONNECT_ATTEMPTS,
//	RELATE15_RECONNECT_DELAY, RELATE15_CREDENTIAL_SCOPE, RELATE15_DB_PATH,
//	RELATE15_LOG_LEVEL
//
// Durations are Go duration strings ("3s", "500ms").
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "socket_url": "ws://localhost:5000/ws",
//	  "online_check_interval": "3s",
//	  "reconnect_attempts": 5,
//	  "reconnect_delay": "1s",
//	  "credential_scope": "durable",
//	  "database_path": "relate15.db",
//	  "log_level": "debug"
//	}
package config
