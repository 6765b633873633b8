// Package version reports the lito build identity printed by --version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/lito/internal/version.Version=v0.4.0"
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// String renders "version (commit, built time)", filling commit and time from
// the embedded VCS stamp when the linker did not set them.
func String() string {
	return format(Version, GitCommit, BuildTime, readBuildInfo)
}

func format(v, commit, built string, info func() (*debug.BuildInfo, bool)) string {
	if commit == "" || built == "" {
		if bi, ok := info(); ok {
			for _, s := range bi.Settings {
				switch {
				case s.Key == "vcs.revision" && commit == "":
					commit = shortRevision(s.Value)
				case s.Key == "vcs.time" && built == "":
					built = s.Value
				}
			}
		}
	}
	return fmt.Sprintf("%s (%s, built %s)", v, orUnknown(commit), orUnknown(built))
}

func readBuildInfo() (*debug.BuildInfo, bool) { return debug.ReadBuildInfo() }

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
