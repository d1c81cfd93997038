package version

import (
	"strconv"
	"strings"
)

// Compare returns -1, 0 or 1 when v sorts before, equal to, or after other.
//
// Numeric parts are compared first (a missing revision counts as zero). A
// release sorts after any prerelease of the same numbers. Prerelease labels
// are compared pairwise: numeric labels numerically, alphanumeric labels
// ordinally ignoring case, and numeric labels before alphanumeric ones.
// Build metadata is ignored.
func (v *NuGetVersion) Compare(other *NuGetVersion) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	if c := compareInt(v.Revision, other.Revision); c != 0 {
		return c
	}

	switch {
	case !v.IsPrerelease() && !other.IsPrerelease():
		return 0
	case !v.IsPrerelease():
		return 1
	case !other.IsPrerelease():
		return -1
	}

	return compareLabels(v.ReleaseLabels, other.ReleaseLabels)
}

// Equals reports whether both versions have the same precedence.
func (v *NuGetVersion) Equals(other *NuGetVersion) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v *NuGetVersion) LessThan(other *NuGetVersion) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v *NuGetVersion) GreaterThan(other *NuGetVersion) bool {
	return v.Compare(other) > 0
}

func compareLabels(a, b []string) int {
	n := min(len(a), len(b))
	for i := range n {
		if c := compareLabel(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareLabel(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return compareInt(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
