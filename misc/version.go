// Package misc holds build time information about the program.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X cellquest/misc.version=... -X cellquest/misc.gitHash=...".
var (
	version = "dev"
	gitHash = ""
)

const appName = "cellquest"

// GetAppName returns the program name used for logs and report files.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the source revision the program was built from, falling
// back to VCS information embedded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
