// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/dbpick/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. Set manually for releases.
	Version = "0.1.0-dev"
)

// stamp is the commit, dirty flag and time a build reports.
type stamp struct {
	commit string
	dirty  bool
	time   string
}

// current merges the injected variables with the toolchain's VCS
// stamp. Injected values win.
func current(settings []debug.BuildSetting) stamp {
	result := stamp{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if result.commit == "unknown" {
				result.commit = setting.Value
				if len(result.commit) > 12 {
					result.commit = result.commit[:12]
				}
			}
		case "vcs.modified":
			if GitDirty != "true" {
				result.dirty = setting.Value == "true"
			}
		case "vcs.time":
			if result.time == "unknown" {
				result.time = setting.Value
			}
		}
	}
	return result
}

func buildSettings() []debug.BuildSetting {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info.Settings
}

// Info returns a formatted version string suitable for --version
// output: "0.1.0-dev (abc1234, 2026-02-10T...)".
func Info() string {
	return format(current(buildSettings()))
}

func format(build stamp) string {
	dirty := ""
	if build.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, build.commit, dirty, build.time)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
