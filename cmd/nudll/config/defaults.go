// Package config resolves nudll defaults from the environment and the
// executable's location.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v3 "github.com/willibrandon/nudll/protocol/v3"
)

// Environment variables that override flag defaults.
const (
	EnvSource    = "NUDLL_SOURCE"
	EnvFramework = "NUDLL_FRAMEWORK"
	EnvOutput    = "NUDLL_OUTPUT"
)

const (
	// DefaultSource is the service index queried when no source is given.
	DefaultSource = v3.DefaultServiceIndexURL

	// DefaultFramework is the target framework moniker binaries are taken for.
	DefaultFramework = "net6.0"

	// DownloadsFolder is created next to the executable to hold outputs.
	DownloadsFolder = "downloads"

	// LatestFolder names the output folder when no version is requested.
	LatestFolder = "latest"
)

// EnvOrDefault returns the trimmed value of key, or def when it is unset or blank.
func EnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// DefaultOutputDir returns <executable dir>/downloads/<id>/<version>.
func DefaultOutputDir(packageID, versionArg string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return OutputDirUnder(filepath.Dir(exe), packageID, versionArg), nil
}

// OutputDirUnder returns base/downloads/<id>/<version>, using "latest" for
// an empty version.
func OutputDirUnder(base, packageID, versionArg string) string {
	folder := strings.TrimSpace(versionArg)
	if folder == "" {
		folder = LatestFolder
	}
	return filepath.Join(base, DownloadsFolder, packageID, folder)
}
