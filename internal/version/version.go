// Package version provides centralized version management for modelcast.
// It supports semantic versioning, build-time injection, and version validation.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// Info represents comprehensive version information
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetInfo returns comprehensive version information
func GetInfo() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if v, err := semver.NewVersion(Version); err == nil {
		info.SemVer = v
	}

	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("modelcast v%s (%s, built %s, %s, %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// IsValid checks whether the version string is valid semver
func IsValid(version string) bool {
	_, err := semver.NewVersion(version)
	return err == nil
}

// Compare compares two semver strings. Returns -1, 0, or 1 if a is less
// than, equal to, or greater than b. Returns an error if either is invalid.
func Compare(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}

// IsPrerelease reports whether the current version carries a prerelease tag.
func IsPrerelease() bool {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}
