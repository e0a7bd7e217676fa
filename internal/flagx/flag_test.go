package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "yard.json", "-a", "https://api.example"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "yard.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-b", "demo"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-l", "debug"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep order",
			args:         []string{"-b", "demo", "qr", "-l", "debug", "--other", "x"},
			allowedFlags: []string{"-b", "-l"},
			want:         []string{"-b", "demo", "-l", "debug"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestPositional(t *testing.T) {
	valued := []string{"-c", "-b", "-l"}

	assert.Equal(t, []string{"qr", "pet-1"},
		Positional([]string{"qr", "-b", "demo", "pet-1", "-l=debug"}, valued))
	assert.Equal(t, []string{"pet-1"},
		Positional([]string{"--verbose", "pet-1"}, valued))
	assert.Empty(t, Positional([]string{"-c", "yard.json"}, valued))
}

func TestJSONConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/yard.json", JSONConfigPath([]string{"-c", "/etc/yard.json"}))
	assert.Equal(t, "/tmp/2.json", JSONConfigPath([]string{"-c", "/tmp/1.json", "-config", "/tmp/2.json"}))
	assert.Empty(t, JSONConfigPath([]string{"-x", "1"}))
}

func TestJsonConfigFlags_ReadsProcessArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"yard", "-config", "/path/long.json"}
	assert.Equal(t, "/path/long.json", JsonConfigFlags())
}
