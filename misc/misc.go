// Package misc provides build time information about the program.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "css2rust"

// version could be overwritten at link time for release builds.
var version = ""

var buildInfo = sync.OnceValues(func() (string, string) {
	ver, hash := "unknown", "unknown"
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ver, hash
	}
	if bi.Main.Version != "" {
		ver = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			hash = s.Value
			break
		}
	}
	return ver, hash
})

func GetAppName() string {
	return appName
}

func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	ver, _ := buildInfo()
	return ver
}

func GetGitHash() string {
	_, hash := buildInfo()
	return hash
}
