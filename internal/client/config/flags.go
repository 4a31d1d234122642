package config

import (
	"flag"

	"github.com/dmitrijs2005/ums/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-l string   listen address of the web client
//	-s string   session store kind
//
// Other flags in args are filtered out with flagx.FilterArgs so the config
// file flag and unrelated flags do not trip the parser.
func parseFlags(cfg *Config, args []string) {
	filtered := flagx.FilterArgs(args, []string{"-a", "-l", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.SessionStore, "s", cfg.SessionStore, "session store (sqlite, postgres, redis, memory)")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}
}
