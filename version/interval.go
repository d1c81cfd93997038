package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInterval is returned for range expressions that cannot be parsed.
var ErrInvalidInterval = errors.New("invalid version range")

// Interval is a parsed dependency version range.
//
// Syntax:
//
//	1.0          - x ≥ 1.0 (same as [1.0, ))
//	[1.0]        - x == 1.0 (pinned)
//	[1.0, 2.0]   - 1.0 ≤ x ≤ 2.0
//	(1.0, 2.0)   - 1.0 < x < 2.0
//	[1.0, 2.0)   - 1.0 ≤ x < 2.0
//	(, 2.0]      - x ≤ 2.0
//	""           - latest
type Interval struct {
	MinVersion   *NuGetVersion
	MaxVersion   *NuGetVersion
	MinInclusive bool
	MaxInclusive bool

	// Pinned holds the exact version string of a "[x]" expression.
	Pinned string

	latest bool
}

// ParseInterval parses a range expression. The empty string yields the
// "latest" interval.
func ParseInterval(expr string) (*Interval, error) {
	tokens := strings.Split(expr, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	switch len(tokens) {
	case 1:
		return parseSingleToken(expr, tokens[0])
	case 2:
		return parseBounds(expr, tokens[0], tokens[1])
	default:
		return nil, fmt.Errorf("%w %q: expected at most two bounds", ErrInvalidInterval, expr)
	}
}

// MustParseInterval is like ParseInterval but panics on error.
func MustParseInterval(expr string) *Interval {
	iv, err := ParseInterval(expr)
	if err != nil {
		panic(err)
	}
	return iv
}

func parseSingleToken(expr, token string) (*Interval, error) {
	if token == "" {
		return &Interval{latest: true}, nil
	}

	if token[0] != '[' && token[0] != '(' {
		// Bare version is a floor: "1.0" is "[1.0, )".
		return parseBounds(expr, "["+token, ")")
	}

	if token[0] == '[' && strings.HasSuffix(token, "]") {
		pinned := strings.TrimSpace(token[1 : len(token)-1])
		if _, err := Parse(pinned); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidInterval, expr, err)
		}
		return &Interval{Pinned: pinned}, nil
	}

	return nil, fmt.Errorf("%w %q: single bracketed version must use [x]", ErrInvalidInterval, expr)
}

func parseBounds(expr, lower, upper string) (*Interval, error) {
	if lower == "" || (lower[0] != '[' && lower[0] != '(') {
		return nil, fmt.Errorf("%w %q: lower bound must start with [ or (", ErrInvalidInterval, expr)
	}
	if upper == "" || (!strings.HasSuffix(upper, "]") && !strings.HasSuffix(upper, ")")) {
		return nil, fmt.Errorf("%w %q: upper bound must end with ] or )", ErrInvalidInterval, expr)
	}

	iv := &Interval{
		MinInclusive: lower[0] == '[',
		MaxInclusive: upper[len(upper)-1] == ']',
	}

	var err error
	if minPart := strings.TrimSpace(lower[1:]); minPart != "" {
		if iv.MinVersion, err = Parse(minPart); err != nil {
			return nil, fmt.Errorf("%w %q: min version: %v", ErrInvalidInterval, expr, err)
		}
	}
	if maxPart := strings.TrimSpace(upper[:len(upper)-1]); maxPart != "" {
		if iv.MaxVersion, err = Parse(maxPart); err != nil {
			return nil, fmt.Errorf("%w %q: max version: %v", ErrInvalidInterval, expr, err)
		}
	}

	return iv, nil
}

// IsLatest reports whether the interval asks for the newest published version.
func (iv *Interval) IsLatest() bool {
	return iv.latest
}

// IsPinned reports whether the interval names a single exact version.
func (iv *Interval) IsPinned() bool {
	return iv.Pinned != ""
}

// Matches reports whether v falls inside the interval.
//
// At least one bound must be stated and satisfied, and an absent bound is
// tolerated only on one side, so an interval without bounds never matches.
// Latest matches everything; a pinned interval matches only its version.
func (iv *Interval) Matches(v *NuGetVersion) bool {
	if v == nil {
		return false
	}
	if iv.latest {
		return true
	}
	if iv.IsPinned() {
		return v.Equals(MustParse(iv.Pinned))
	}

	hasMin := iv.MinVersion != nil
	hasMax := iv.MaxVersion != nil

	minMatch := false
	if hasMin {
		c := v.Compare(iv.MinVersion)
		minMatch = c > 0 || (iv.MinInclusive && c == 0)
	}

	maxMatch := false
	if hasMax {
		c := v.Compare(iv.MaxVersion)
		maxMatch = c < 0 || (iv.MaxInclusive && c == 0)
	}

	return (hasMin && minMatch && hasMax && maxMatch) ||
		(hasMin && minMatch && !hasMax) ||
		(!hasMin && hasMax && maxMatch)
}

// String renders the interval in NuGet range syntax.
func (iv *Interval) String() string {
	if iv.latest {
		return ""
	}
	if iv.IsPinned() {
		return "[" + iv.Pinned + "]"
	}

	open, closing := "(", ")"
	if iv.MinInclusive {
		open = "["
	}
	if iv.MaxInclusive {
		closing = "]"
	}

	var lower, upper string
	if iv.MinVersion != nil {
		lower = iv.MinVersion.String()
	}
	if iv.MaxVersion != nil {
		upper = iv.MaxVersion.String()
	}

	return fmt.Sprintf("%s%s, %s%s", open, lower, upper, closing)
}
