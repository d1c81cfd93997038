package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/willibrandon/nudll/protocol/v3"
	"github.com/willibrandon/nudll/version"
)

func leaf(ver string) v3.RegistrationLeaf {
	return v3.RegistrationLeaf{
		CatalogEntry:   &v3.CatalogEntry{Version: ver},
		PackageContent: "https://example.test/pkg." + ver + ".nupkg",
	}
}

func page(lower, upper string, versions ...string) v3.RegistrationPage {
	p := v3.RegistrationPage{Lower: lower, Upper: upper, Count: len(versions)}
	for _, v := range versions {
		p.Items = append(p.Items, leaf(v))
	}
	return p
}

var candidates = page("0.9.0", "2.1.0", "0.9.0", "1.0.0", "1.5.0", "2.0.0", "2.1.0")

func TestSelector_SelectInPage(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		want   string
		wantOK bool
	}{
		{"half-open bounded", "[1.0.0,2.0.0)", "1.5.0", true},
		{"exclusive min inclusive max", "(1.0.0,2.0.0]", "2.0.0", true},
		{"bare version is min inclusive", "1.2.0", "2.1.0", true},
		{"explicit min inclusive", "[1.2.0,)", "2.1.0", true},
		{"max only", "(,1.0.0]", "1.0.0", true},
		{"max only exclusive", "(,1.0.0)", "0.9.0", true},
		{"nothing in range", "[3.0.0,4.0.0]", "", false},
		{"unbounded never matches", "(,)", "", false},
		{"latest uses upper", "", "2.1.0", true},
		{"pinned short-circuits", "[7.7.7]", "7.7.7", true},
	}

	s := NewSelector(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := version.MustParseInterval(tt.expr)
			got, ok := s.SelectInPage(&candidates, iv)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_BareEqualsMinInclusive(t *testing.T) {
	s := NewSelector(nil)
	for _, v := range []string{"0.9.0", "1.0.0", "1.5.0", "2.0.0", "2.1.0"} {
		bare, okBare := s.SelectInPage(&candidates, version.MustParseInterval(v))
		explicit, okExplicit := s.SelectInPage(&candidates, version.MustParseInterval("["+v+",)"))
		assert.Equal(t, explicit, bare, v)
		assert.Equal(t, okExplicit, okBare, v)
	}
}

func TestSelector_PinnedIgnoresCandidates(t *testing.T) {
	empty := v3.RegistrationPage{Upper: "9.9.9"}
	got, ok := NewSelector(nil).SelectInPage(&empty, version.MustParseInterval("[1.2.0]"))
	assert.True(t, ok)
	assert.Equal(t, "1.2.0", got)
}

func TestSelector_LatestReturnsUpperUnchanged(t *testing.T) {
	p := v3.RegistrationPage{Upper: "13.0.3-beta1"}
	got, ok := NewSelector(nil).SelectInPage(&p, version.MustParseInterval(""))
	assert.True(t, ok)
	assert.Equal(t, "13.0.3-beta1", got)
}

func TestSelector_KeepsFirstOfEqualVersions(t *testing.T) {
	p := page("1.0.0", "1.0.0", "1.0", "1.0.0")
	got, ok := NewSelector(nil).SelectInPage(&p, version.MustParseInterval("[1.0.0,)"))
	require.True(t, ok)
	assert.Equal(t, "1.0", got)
}

func TestSelector_SkipsUnparseableVersions(t *testing.T) {
	p := page("1.0.0", "2.0.0", "1.0.0", "not-a-version", "2.0.0")
	got, ok := NewSelector(nil).SelectInPage(&p, version.MustParseInterval("[1.0.0,)"))
	require.True(t, ok)
	assert.Equal(t, "2.0.0", got)
}

func TestSelector_Select(t *testing.T) {
	index := &v3.RegistrationIndex{
		Count: 2,
		Items: []v3.RegistrationPage{
			page("1.0.0", "1.9.0", "1.0.0", "1.5.0", "1.9.0"),
			page("2.0.0", "3.0.0", "2.0.0", "2.5.0", "3.0.0"),
		},
	}

	s := NewSelector(nil)

	t.Run("maximum across pages", func(t *testing.T) {
		res, err := s.Select(index, "Pkg", "[1.0.0,3.0.0)")
		require.NoError(t, err)
		assert.Equal(t, "2.5.0", res.Version)
		assert.Equal(t, "Pkg", res.PackageID)
		assert.Equal(t, "https://example.test/pkg.2.5.0.nupkg", res.ContentURL)
		assert.Same(t, index.Items[1].Items[1].CatalogEntry, res.CatalogEntry)
	})

	t.Run("latest takes highest upper", func(t *testing.T) {
		res, err := s.Select(index, "Pkg", "")
		require.NoError(t, err)
		assert.Equal(t, "3.0.0", res.Version)
	})

	t.Run("match only in first page", func(t *testing.T) {
		res, err := s.Select(index, "Pkg", "(,1.6.0]")
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", res.Version)
	})

	t.Run("pinned found", func(t *testing.T) {
		res, err := s.Select(index, "Pkg", "[1.9.0]")
		require.NoError(t, err)
		assert.Equal(t, "1.9.0", res.Version)
	})

	t.Run("pinned semantic match", func(t *testing.T) {
		res, err := s.Select(index, "Pkg", "[2.5]")
		require.NoError(t, err)
		assert.Equal(t, "2.5.0", res.Version)
	})

	t.Run("pinned not published", func(t *testing.T) {
		_, err := s.Select(index, "Pkg", "[4.0.0]")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVersionNotListed)

		var resErr *ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, "Pkg", resErr.PackageID)
		assert.Equal(t, "[4.0.0]", resErr.Range)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := s.Select(index, "Pkg", "[5.0.0,)")
		assert.ErrorIs(t, err, ErrNoMatchingVersion)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := s.Select(index, "Pkg", "[1.0.0,2.0.0,3.0.0]")
		assert.ErrorIs(t, err, version.ErrInvalidInterval)
	})
}

func TestSelector_CatalogContentPreferred(t *testing.T) {
	index := &v3.RegistrationIndex{Items: []v3.RegistrationPage{{
		Upper: "1.0.0",
		Items: []v3.RegistrationLeaf{{
			CatalogEntry:   &v3.CatalogEntry{Version: "1.0.0", PackageContent: "https://catalog.test/a.nupkg"},
			PackageContent: "https://leaf.test/a.nupkg",
		}},
	}}}

	res, err := NewSelector(nil).Select(index, "A", "")
	require.NoError(t, err)
	assert.Equal(t, "https://catalog.test/a.nupkg", res.ContentURL)
}

func TestResolutionError_Message(t *testing.T) {
	err := &ResolutionError{PackageID: "A", Err: ErrNoMatchingVersion}
	assert.Equal(t, "resolve A latest: no version matches range", err.Error())

	err = &ResolutionError{PackageID: "A", Range: "[1.0.0,)", Err: ErrNoMatchingVersion}
	assert.EqualError(t, err, "resolve A [1.0.0,): no version matches range")
	assert.ErrorIs(t, err, ErrNoMatchingVersion)
}
