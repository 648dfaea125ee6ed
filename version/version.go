// Package version reports build information for the /info endpoint and the
// startup log.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set at build time with -ldflags "-X github.com/kbukum/meetingnotes/version.Version=1.2.0".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

var (
	infoOnce sync.Once
	info     Info
)

// Get returns the build information. ldflags values win over the VCS stamp
// the Go toolchain embeds.
func Get() Info {
	infoOnce.Do(func() {
		info = resolve(Version, GitCommit, BuildTime, readBuildInfo())
	})
	return info
}

func readBuildInfo() *debug.BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return bi
}

func resolve(ver, commit, built string, bi *debug.BuildInfo) Info {
	out := Info{Version: ver, GitCommit: commit, BuildTime: built}
	if bi == nil {
		return out
	}
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if out.GitCommit == "" {
				out.GitCommit = s.Value
			}
		case "vcs.time":
			if out.BuildTime == "" {
				out.BuildTime = s.Value
			}
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}
	if len(out.GitCommit) > 7 {
		out.GitCommit = out.GitCommit[:7]
	}
	return out
}

// String returns "version-commit[-dirty]", or just the version without a commit.
func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := fmt.Sprintf("%s-%s", i.Version, i.GitCommit)
	if i.Dirty {
		s += "-dirty"
	}
	return s
}
