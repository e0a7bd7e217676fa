package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "YARD_"

var dotEnvFiles = []string{".env"}

// parseEnv loads .env files into the process environment, without
// overriding variables that are already set, and then overlays every
// YARD_* variable that is present. Unset variables keep their current
// value. Panics on malformed input, like parseJson.
func parseEnv(cfg *Config) {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
