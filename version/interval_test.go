package version

import (
	"errors"
	"testing"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantErr      bool
		latest       bool
		pinned       string
		min          string
		max          string
		minInclusive bool
		maxInclusive bool
	}{
		{name: "latest", input: "", latest: true},
		{name: "whitespace latest", input: "   ", latest: true},
		{name: "bare version", input: "1.2.0", min: "1.2.0", minInclusive: true},
		{name: "explicit floor", input: "[1.2.0,)", min: "1.2.0", minInclusive: true},
		{name: "pinned", input: "[1.2.0]", pinned: "1.2.0"},
		{name: "pinned with spaces", input: "[ 1.2.0 ]", pinned: "1.2.0"},
		{name: "inclusive both", input: "[1.0, 2.0]", min: "1.0", max: "2.0", minInclusive: true, maxInclusive: true},
		{name: "exclusive both", input: "(1.0, 2.0)", min: "1.0", max: "2.0"},
		{name: "mixed", input: "[1.0.0,2.0.0)", min: "1.0.0", max: "2.0.0", minInclusive: true},
		{name: "single part bounds", input: "[1, 2)", min: "1", max: "2", minInclusive: true},
		{name: "open lower", input: "(, 2.0]", max: "2.0", maxInclusive: true},
		{name: "no bounds", input: "(,)"},
		{name: "three parts", input: "[1.0,2.0,3.0]", wantErr: true},
		{name: "missing lower bracket", input: "1.0, 2.0]", wantErr: true},
		{name: "missing upper bracket", input: "[1.0, 2.0", wantErr: true},
		{name: "single exclusive", input: "(1.0)", wantErr: true},
		{name: "half open single", input: "[1.0)", wantErr: true},
		{name: "bad min", input: "[abc, 2.0]", wantErr: true},
		{name: "bad max", input: "[1.0, abc]", wantErr: true},
		{name: "bad pinned", input: "[abc]", wantErr: true},
		{name: "bad bare", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := ParseInterval(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInterval(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Errorf("error %v is not ErrInvalidInterval", err)
				}
				return
			}

			if iv.IsLatest() != tt.latest {
				t.Errorf("IsLatest() = %v, want %v", iv.IsLatest(), tt.latest)
			}
			if iv.Pinned != tt.pinned {
				t.Errorf("Pinned = %q, want %q", iv.Pinned, tt.pinned)
			}
			if got := versionString(iv.MinVersion); got != tt.min {
				t.Errorf("MinVersion = %q, want %q", got, tt.min)
			}
			if got := versionString(iv.MaxVersion); got != tt.max {
				t.Errorf("MaxVersion = %q, want %q", got, tt.max)
			}
			if iv.MinInclusive != tt.minInclusive {
				t.Errorf("MinInclusive = %v, want %v", iv.MinInclusive, tt.minInclusive)
			}
			if iv.MaxInclusive != tt.maxInclusive {
				t.Errorf("MaxInclusive = %v, want %v", iv.MaxInclusive, tt.maxInclusive)
			}
		})
	}
}

func TestParseInterval_BareVersionEqualsFloor(t *testing.T) {
	candidates := []string{"0.9.0", "1.1.9", "1.2.0", "1.2.0-beta", "1.2.1", "3.0.0"}

	for _, bare := range []string{"1.2.0", "0.1", "2.0.0-rc.1"} {
		a := MustParseInterval(bare)
		b := MustParseInterval("[" + bare + ",)")

		if a.String() != b.String() {
			t.Errorf("%q renders %q, [%s,) renders %q", bare, a.String(), bare, b.String())
		}
		for _, c := range candidates {
			v := MustParse(c)
			if a.Matches(v) != b.Matches(v) {
				t.Errorf("%q and [%s,) disagree on %s", bare, bare, c)
			}
		}
	}
}

func TestInterval_Matches(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		version  string
		expected bool
	}{
		{"inclusive min", "[1.0, 2.0]", "1.0.0", true},
		{"inclusive max", "[1.0, 2.0]", "2.0.0", true},
		{"inclusive middle", "[1.0, 2.0]", "1.5.0", true},
		{"inclusive below", "[1.0, 2.0]", "0.9.0", false},
		{"inclusive above", "[1.0, 2.0]", "2.1.0", false},

		{"exclusive min", "(1.0, 2.0)", "1.0.0", false},
		{"exclusive max", "(1.0, 2.0)", "2.0.0", false},
		{"exclusive middle", "(1.0, 2.0)", "1.5.0", true},

		{"floor at", "1.0", "1.0.0", true},
		{"floor above", "1.0", "99.0.0", true},
		{"floor below", "1.0", "0.9.9", false},
		{"single part floor", "[1, 2)", "1.0.0", true},
		{"single part ceiling", "[1, 2)", "2.0.0", false},
		{"exclusive floor at", "(1.0,)", "1.0.0", false},
		{"exclusive floor above", "(1.0,)", "1.0.1", true},

		{"ceiling at", "(,2.0]", "2.0.0", true},
		{"ceiling below", "(,2.0]", "0.0.1", true},
		{"ceiling above", "(,2.0]", "2.0.1", false},
		{"exclusive ceiling at", "(,2.0)", "2.0.0", false},

		{"no bounds", "(,)", "1.0.0", false},
		{"no bounds inclusive", "[,]", "1.0.0", false},

		{"pinned hit", "[1.2.0]", "1.2.0", true},
		{"pinned miss", "[1.2.0]", "1.2.1", false},
		{"latest", "", "0.0.1", true},

		{"prerelease below release floor", "[1.0.0,)", "1.0.0-beta", false},
		{"prerelease inside", "[1.0.0,2.0.0)", "2.0.0-rc.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseInterval(tt.interval).Matches(MustParse(tt.version))
			if got != tt.expected {
				t.Errorf("%q.Matches(%s) = %v, want %v", tt.interval, tt.version, got, tt.expected)
			}
		})
	}
}

func TestInterval_MatchesNil(t *testing.T) {
	if MustParseInterval("[1.0,)").Matches(nil) {
		t.Error("Matches(nil) = true, want false")
	}
}

func TestInterval_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"1.2.0", "[1.2.0, )"},
		{"[1.2.0]", "[1.2.0]"},
		{"(1.0,2.0]", "(1.0, 2.0]"},
		{"(,2.0)", "(, 2.0)"},
	}

	for _, tt := range tests {
		if got := MustParseInterval(tt.input).String(); got != tt.want {
			t.Errorf("ParseInterval(%q).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func versionString(v *NuGetVersion) string {
	if v == nil {
		return ""
	}
	return v.String()
}
