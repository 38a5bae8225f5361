// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     version
// Description: Central version management for the tool and its formats
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Tool and format versions
const (
	// Tool version
	Tool = "1.0.0"

	// FileFormat is the sky model text format version written in the
	// "skymodel fileformat" header line
	FileFormat = "1.1"
)

// Build metadata, overridden with -ldflags "-X ..." at build time
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info returns a multi-line description of the build
func Info() string {
	return fmt.Sprintf("skymodel v%s\n  File Format: %s\n  Git Commit:  %s\n  Build Date:  %s\n  Go Version:  %s\n  OS/Arch:     %s/%s\n",
		Tool, FileFormat, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
