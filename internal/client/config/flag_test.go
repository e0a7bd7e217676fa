package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{
			name: "all flags",
			args: []string{"yard", "-a", "https://auth.example", "-d", "postgres://db", "-b", "remote", "-l", "debug"},
			expected: &Config{
				AuthURL:     "https://auth.example",
				DatabaseDSN: "postgres://db",
				Backend:     "remote",
				LogLevel:    "debug",
			},
		},
		{
			name:     "foreign flags and subcommands ignored",
			args:     []string{"yard", "qr", "-c", "yard.json", "-b", "demo", "pet-1"},
			expected: &Config{Backend: "demo"},
		},
		{
			name:     "no flags keeps values",
			args:     []string{"yard"},
			expected: &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
