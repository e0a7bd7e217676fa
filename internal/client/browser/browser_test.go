package browser

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_PerPlatform(t *testing.T) {
	orig := goos
	t.Cleanup(func() { goos = orig })

	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{"https://x"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}},
		{"linux", "xdg-open", []string{"https://x"}},
	}
	for _, tt := range tests {
		goos = tt.goos
		name, args := command("https://x")
		assert.Equal(t, tt.name, name, tt.goos)
		assert.Equal(t, tt.args, args, tt.goos)
	}
}

func TestOpen_UsesExecSeam(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })

	var gotName string
	var gotArgs []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return exec.Command("true")
	}

	require.NoError(t, Open("https://the-yard.netlify.app/pricing"))
	assert.NotEmpty(t, gotName)
	assert.Contains(t, gotArgs, "https://the-yard.netlify.app/pricing")
}
