// Package buildinfo carries values injected at link time, e.g.
//
//	go build -ldflags "-X github.com/theyard/yard/internal/buildinfo.buildVersion=1.0.2"
package buildinfo

import (
	"fmt"
	"io"

	"github.com/theyard/yard/internal/common"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func valueOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// Version is the link-time version, or the application version when none was set.
func Version() string {
	if buildVersion == "" {
		return common.AppVersion
	}
	return buildVersion
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version())
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
