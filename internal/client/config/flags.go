package config

import (
	"flag"
	"os"

	"github.com/theyard/yard/internal/flagx"
)

// Flags is the set handled by parseFlags. Every one of them takes a value.
var Flags = []string{"-a", "-d", "-b", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   auth service base URL
//	-d string   PostgreSQL DSN of the data store
//	-b string   backend (remote or demo)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// parsers and subcommand names are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthURL, "a", cfg.AuthURL, "auth service base URL")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "data store DSN")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: remote or demo")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
