// Package version parses and orders NuGet package versions and the
// interval expressions used by dependency ranges.
//
// Both SemVer 2.0 versions and legacy 4-part versions are accepted.
//
// Example:
//
//	v, err := version.Parse("13.0.3")
//	if err != nil {
//	    return err
//	}
//	iv, _ := version.ParseInterval("[13.0.1, 14.0.0)")
//	fmt.Println(iv.Matches(v)) // true
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// NuGetVersion is a parsed NuGet package version.
type NuGetVersion struct {
	Major    int
	Minor    int
	Patch    int
	Revision int

	// IsLegacyVersion is set for 4-part versions (Major.Minor.Build.Revision).
	IsLegacyVersion bool

	// ReleaseLabels holds the dot-separated prerelease labels, e.g. ["rc", "2"].
	ReleaseLabels []string

	// Metadata is the build metadata after '+'. It never affects ordering.
	Metadata string

	original string
}

// Parse parses a version string.
//
// Accepted forms:
//   - Major.Minor[.Patch][-Prerelease][+Metadata]
//   - Major.Minor.Build.Revision[-Prerelease][+Metadata]
func Parse(s string) (*NuGetVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	v := &NuGetVersion{original: s}

	rest := s
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		v.Metadata = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		labels := rest[i+1:]
		if labels == "" {
			return nil, fmt.Errorf("invalid version %q: empty prerelease label", s)
		}
		v.ReleaseLabels = strings.Split(labels, ".")
		rest = rest[:i]
	}

	numbers := strings.Split(rest, ".")
	if len(numbers) > 4 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}

	parts := [4]int{}
	for i, n := range numbers {
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("invalid version component %q in %q", n, s)
		}
		parts[i] = value
	}

	v.Major, v.Minor, v.Patch, v.Revision = parts[0], parts[1], parts[2], parts[3]
	v.IsLegacyVersion = len(numbers) == 4

	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) *NuGetVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsPrerelease reports whether the version carries prerelease labels.
func (v *NuGetVersion) IsPrerelease() bool {
	return len(v.ReleaseLabels) > 0
}

// String returns the version as it was originally written.
func (v *NuGetVersion) String() string {
	if v.original != "" {
		return v.original
	}
	return v.ToNormalizedString()
}

// ToNormalizedString renders the canonical form: no leading zeros, at least
// three numeric parts, the revision only when non-zero, metadata dropped.
func (v *NuGetVersion) ToNormalizedString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Revision > 0 {
		fmt.Fprintf(&b, ".%d", v.Revision)
	}
	if len(v.ReleaseLabels) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.ReleaseLabels, "."))
	}
	return b.String()
}
