package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version information (set via -ldflags during build)
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile reads version from a .version file next to the
// executable if one exists
func LoadVersionFromFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return Version
	}

	versionFile := filepath.Join(filepath.Dir(exePath), ".version")
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return Version
	}

	if version := strings.TrimSpace(string(data)); version != "" {
		Version = version
	}
	return Version
}
