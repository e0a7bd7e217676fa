// Package browser opens external pages (pricing, billing management, the
// identity provider) in the system browser.
package browser

import (
	"os/exec"
	"runtime"
)

var (
	execCommand = exec.Command
	goos        = runtime.GOOS
)

func command(url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Open starts the platform URL handler and returns without waiting for it.
func Open(url string) error {
	name, args := command(url)
	return execCommand(name, args...).Start()
}
