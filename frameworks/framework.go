// Package frameworks parses Target Framework Monikers (TFMs) and decides
// whether two monikers name the same framework.
//
// Example:
//
//	fw, err := frameworks.ParseFramework("net8.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fw.Framework, fw.Version.Major) // .NETCoreApp 8
package frameworks

import (
	"fmt"
	"strconv"
	"strings"
)

// Framework identifiers.
const (
	NetFramework = ".NETFramework"
	NetStandard  = ".NETStandard"
	NetCoreApp   = ".NETCoreApp"
)

// NuGetFramework represents a Target Framework Moniker (TFM).
type NuGetFramework struct {
	// Framework is the framework identifier (e.g., ".NETFramework", ".NETStandard")
	Framework string

	// Version is the framework version
	Version FrameworkVersion

	// Platform is the platform identifier (e.g., "windows", "android")
	Platform string

	originalString string
}

// FrameworkVersion represents a framework version number.
type FrameworkVersion struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String trims trailing zero components: 4.7.2.0 → "4.7.2", 6.0.0.0 → "6.0".
func (v FrameworkVersion) String() string {
	if v.Revision > 0 {
		return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
	}
	if v.Build > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// String returns the moniker as it was parsed.
func (fw *NuGetFramework) String() string {
	if fw.originalString != "" {
		return fw.originalString
	}
	return fw.ShortFolderName()
}

// ShortFolderName returns the lib/ folder name for the framework, e.g.
// "net6.0", "netstandard2.0" or "net48".
func (fw *NuGetFramework) ShortFolderName() string {
	var name string
	switch fw.Framework {
	case NetCoreApp:
		if fw.Version.Major >= 5 {
			name = "net" + fw.Version.String()
		} else {
			name = "netcoreapp" + fw.Version.String()
		}
	case NetStandard:
		name = "netstandard" + fw.Version.String()
	case NetFramework:
		name = "net" + strings.ReplaceAll(fw.Version.String(), ".", "")
	default:
		name = strings.ToLower(fw.Framework) + fw.Version.String()
	}
	if fw.Platform != "" {
		name += "-" + fw.Platform
	}
	return name
}

// Equals reports whether two frameworks have the same identifier, version and platform.
func (fw *NuGetFramework) Equals(other *NuGetFramework) bool {
	if fw == nil || other == nil {
		return fw == other
	}
	return fw.Framework == other.Framework &&
		fw.Version == other.Version &&
		fw.Platform == other.Platform
}

// ParseFramework parses a TFM string into a NuGetFramework.
//
// Supported formats:
//
//	net8.0              - .NET 8.0 (.NETCoreApp)
//	net6.0-windows      - .NET 6.0 for Windows
//	netstandard2.1      - .NET Standard 2.1
//	netcoreapp3.1       - .NET Core 3.1
//	net48, net472       - .NET Framework (compact digits)
//	.NETStandard2.0     - registration API long form
//	.NETCoreApp,Version=v3.1
//
// .NET 5+ maps to .NETCoreApp; net4x and below map to .NETFramework.
func ParseFramework(tfm string) (*NuGetFramework, error) {
	tfm = strings.TrimSpace(tfm)
	if tfm == "" {
		return nil, fmt.Errorf("framework string cannot be empty")
	}

	fw := &NuGetFramework{originalString: tfm}

	if strings.HasPrefix(tfm, ".") {
		if err := parseLongForm(fw, tfm); err != nil {
			return nil, err
		}
		return fw, nil
	}

	s := strings.ToLower(tfm)
	if name, platform, ok := strings.Cut(s, "-"); ok {
		s = name
		fw.Platform = platform
	}

	prefixes := []struct {
		prefix   string
		fullName string
	}{
		{"netstandard", NetStandard},
		{"netcoreapp", NetCoreApp},
		{"net", ""},
	}

	for _, p := range prefixes {
		versionPart, ok := strings.CutPrefix(s, p.prefix)
		if !ok {
			continue
		}
		if versionPart == "" {
			return nil, fmt.Errorf("missing version for framework %s", p.prefix)
		}

		var (
			v   FrameworkVersion
			err error
		)
		if p.fullName == "" && !strings.Contains(versionPart, ".") {
			v, err = parseCompactVersion(versionPart)
		} else {
			v, err = parseDottedVersion(versionPart)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid version for %s: %w", p.prefix, err)
		}
		fw.Version = v

		switch {
		case p.fullName != "":
			fw.Framework = p.fullName
		case v.Major >= 5:
			fw.Framework = NetCoreApp
		default:
			fw.Framework = NetFramework
		}
		return fw, nil
	}

	return nil, fmt.Errorf("unknown framework identifier: %s", tfm)
}

// MustParseFramework parses a TFM and panics on error.
func MustParseFramework(tfm string) *NuGetFramework {
	fw, err := ParseFramework(tfm)
	if err != nil {
		panic(err)
	}
	return fw
}

// parseLongForm handles ".NETStandard2.0" and ".NETCoreApp,Version=v3.1".
func parseLongForm(fw *NuGetFramework, s string) error {
	name, rest, hasComma := strings.Cut(s, ",")

	for _, id := range []string{NetFramework, NetStandard, NetCoreApp} {
		versionPart, ok := cutPrefixFold(name, id)
		if !ok {
			continue
		}
		fw.Framework = id

		if hasComma {
			for _, part := range strings.Split(rest, ",") {
				if v, found := strings.CutPrefix(strings.TrimSpace(part), "Version="); found {
					versionPart = strings.TrimPrefix(v, "v")
				}
			}
		}
		if versionPart == "" {
			return fmt.Errorf("missing version for framework %s", id)
		}

		v, err := parseDottedVersion(versionPart)
		if err != nil {
			return fmt.Errorf("invalid version for %s: %w", id, err)
		}
		fw.Version = v
		return nil
	}

	return fmt.Errorf("unknown framework identifier: %s", s)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// parseCompactVersion parses "48" → 4.8, "472" → 4.7.2, "4721" → 4.7.2.1.
func parseCompactVersion(s string) (FrameworkVersion, error) {
	if len(s) < 2 || len(s) > 4 {
		return FrameworkVersion{}, fmt.Errorf("compact version must have 2-4 digits: %q", s)
	}
	var parts [4]int
	for i, r := range s {
		if r < '0' || r > '9' {
			return FrameworkVersion{}, fmt.Errorf("invalid digit in version %q", s)
		}
		parts[i] = int(r - '0')
	}
	return FrameworkVersion{Major: parts[0], Minor: parts[1], Build: parts[2], Revision: parts[3]}, nil
}

// parseDottedVersion parses "6.0", "3.1" or "4.7.2".
func parseDottedVersion(s string) (FrameworkVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return FrameworkVersion{}, fmt.Errorf("too many version components: %q", s)
	}
	var nums [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return FrameworkVersion{}, fmt.Errorf("invalid version component %q", p)
		}
		nums[i] = n
	}
	return FrameworkVersion{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// Matches reports whether two monikers name the same framework. Monikers
// that fail to parse match only when equal ignoring case. Compatibility is
// not considered: netstandard2.0 does not match net6.0.
func Matches(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	fa, err := ParseFramework(a)
	if err != nil {
		return false
	}
	fb, err := ParseFramework(b)
	if err != nil {
		return false
	}
	return fa.Equals(fb)
}
