package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/relate15/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST API base URL
//	-w string   WebSocket URL of the real-time channel
//	-i int      online check interval in seconds
//	-s string   credential scope (durable|ephemeral)
//	-d string   SQLite database path
//	-l string   log level
//
// Only these flags are picked from os.Args, so -c and -e handled elsewhere
// do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.Pick(os.Args[1:], "-a", "-w", "-i", "-s", "-d", "-l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "REST API base URL")
	fs.StringVar(&cfg.SocketURL, "w", cfg.SocketURL, "real-time channel URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.CredentialScope, "s", cfg.CredentialScope, "credential scope: durable or ephemeral")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
