package cli

import (
	"fmt"
	"runtime"
)

// Version information (set by main)
var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// GetVersion returns formatted version information
func GetVersion() string {
	return Version
}

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return fmt.Sprintf("nudll version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo: %s",
		Version, Commit, Date, BuiltBy, runtime.Version())
}
