package config

import (
	"flag"
	"os"
	"time"

	"github.com/antonpav/pad/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local SQLite database (default from Config)
//	-r string   base URL of the remote data service
//	-k string   API key for the remote data service
//	-i int      online check interval in seconds (default from Config)
//	-t int      per-operation sync timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-k", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.RemoteBaseURL, "r", cfg.RemoteBaseURL, "base URL of the remote data service")
	fs.StringVar(&cfg.RemoteAPIKey, "k", cfg.RemoteAPIKey, "API key for the remote data service")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	syncOpTimeout := fs.Int("t", int(cfg.SyncOpTimeout.Seconds()), "per-operation sync timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.SyncOpTimeout = time.Duration(*syncOpTimeout) * time.Second
}
