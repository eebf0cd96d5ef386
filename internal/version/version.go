// Package version holds the build identity of bugbear.
package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time with
// go build -ldflags "-X bugbear/internal/version.Version=1.0.0 -X bugbear/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version with the short commit when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line text printed by `bugbear version`.
func Full() string {
	var b strings.Builder
	b.WriteString("bugbear " + Version + "\n")
	b.WriteString("Commit: " + Commit + "\n")
	b.WriteString("Built: " + BuildDate + "\n")
	if info, ok := debug.ReadBuildInfo(); ok {
		b.WriteString("Go: " + info.GoVersion + "\n")
	}
	return b.String()
}

// Fingerprint identifies the analysis behaviour of this build for the result
// cache: the version, the commit and any extra inputs such as settings.
func Fingerprint(extra ...string) string {
	parts := append([]string{Version, Commit}, extra...)
	return strings.Join(parts, "\x1f")
}
