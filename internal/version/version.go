// Package version reports build metadata for the feescan binary.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Populated by the linker:
//
//	-ldflags "-X git.sr.ht/~jakintosh/feescan/internal/version.rawVersion=v1.0.0"
var (
	rawVersion = "dev"
	rawCommit  = ""
	rawDate    = ""
)

// Info captures the build metadata for the binary.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
}

// String renders the one-line form used by --version and the User-Agent.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.BuildDate)
}

// UserAgent is the value sent to the analysis service.
func (i Info) UserAgent() string {
	return "feescan/" + i.Version
}

var (
	infoOnce sync.Once
	info     Info
)

// Data prefers values injected at link time, then go build debug info, then
// development defaults.
func Data() Info {
	infoOnce.Do(func() {
		buildInfo, _ := debug.ReadBuildInfo()
		info = resolve(rawVersion, rawCommit, rawDate, buildInfo)
	})
	return info
}

func resolve(version, commit, date string, buildInfo *debug.BuildInfo) Info {
	out := Info{
		Version:   strings.TrimSpace(version),
		Commit:    strings.TrimSpace(commit),
		BuildDate: strings.TrimSpace(date),
	}

	if buildInfo != nil {
		if isDevVersion(out.Version) && isReleaseVersion(buildInfo.Main.Version) {
			out.Version = buildInfo.Main.Version
		}
		if out.Commit == "" {
			if rev := setting(buildInfo.Settings, "vcs.revision"); rev != "" {
				out.Commit = rev
				if setting(buildInfo.Settings, "vcs.modified") == "true" {
					out.Commit += "-dirty"
				}
			}
		}
		if out.BuildDate == "" {
			if t := setting(buildInfo.Settings, "vcs.time"); t != "" {
				if parsed, err := time.Parse(time.RFC3339, t); err == nil {
					out.BuildDate = parsed.UTC().Format(time.RFC3339)
				} else {
					out.BuildDate = t
				}
			}
		}
	}

	if isDevVersion(out.Version) {
		out.Version = "dev"
	}
	if out.Commit == "" {
		out.Commit = "unknown"
	} else {
		out.Commit = shortenCommit(out.Commit)
	}
	if out.BuildDate == "" {
		out.BuildDate = "unknown"
	}
	return out
}

func setting(settings []debug.BuildSetting, key string) string {
	for _, s := range settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func isDevVersion(value string) bool {
	return value == "" || value == "dev" || value == "(devel)"
}

func isReleaseVersion(value string) bool {
	return !isDevVersion(value) && strings.HasPrefix(value, "v")
}

func shortenCommit(commit string) string {
	const shortLen = 12
	if len(commit) <= shortLen {
		return commit
	}
	return commit[:shortLen]
}
