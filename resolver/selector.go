// Package resolver picks concrete package versions from registration
// documents and walks the dependency closure of a package.
package resolver

import (
	"errors"
	"fmt"

	"github.com/willibrandon/nudll/observability"
	v3 "github.com/willibrandon/nudll/protocol/v3"
	"github.com/willibrandon/nudll/version"
)

var (
	// ErrNoMatchingVersion indicates no published version satisfies the range.
	ErrNoMatchingVersion = errors.New("no version matches range")

	// ErrVersionNotListed indicates the selected version has no catalog entry.
	ErrVersionNotListed = errors.New("selected version has no catalog entry")
)

// ResolutionError reports a package whose range could not be resolved.
type ResolutionError struct {
	PackageID string
	Range     string
	Err       error
}

func (e *ResolutionError) Error() string {
	rng := e.Range
	if rng == "" {
		rng = "latest"
	}
	return fmt.Sprintf("resolve %s %s: %v", e.PackageID, rng, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolution is the outcome of selecting a version for a package.
type Resolution struct {
	PackageID    string
	Version      string
	CatalogEntry *v3.CatalogEntry

	// ContentURL is the archive download URL.
	ContentURL string
}

// Selector chooses the highest version of a package satisfying a range.
type Selector struct {
	logger observability.Logger
}

// NewSelector creates a selector. A nil logger discards output.
func NewSelector(logger observability.Logger) *Selector {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Selector{logger: logger}
}

// SelectInPage returns the version the interval picks from one page.
// Latest yields the page's upper bound and a pinned interval yields its
// version without looking at entries. Otherwise the strictly largest
// matching entry wins, so among equal versions the first one is kept.
func (s *Selector) SelectInPage(page *v3.RegistrationPage, iv *version.Interval) (string, bool) {
	if iv.IsLatest() {
		return page.Upper, page.Upper != ""
	}
	if iv.IsPinned() {
		return iv.Pinned, true
	}

	var (
		bestStr string
		best    *version.NuGetVersion
	)
	for _, leaf := range page.Items {
		if leaf.CatalogEntry == nil {
			continue
		}
		v, err := version.Parse(leaf.CatalogEntry.Version)
		if err != nil {
			s.logger.Debug("Skipping unparseable version {Version}: {Error}", leaf.CatalogEntry.Version, err)
			continue
		}
		if !iv.Matches(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestStr = leaf.CatalogEntry.Version
		}
	}

	return bestStr, best != nil
}

// Select resolves rangeExpr against every page of index. The highest
// per-page selection wins; its catalog entry is then looked up by exact
// version string, falling back to semantic equality.
func (s *Selector) Select(index *v3.RegistrationIndex, packageID, rangeExpr string) (*Resolution, error) {
	fail := func(err error) error {
		return &ResolutionError{PackageID: packageID, Range: rangeExpr, Err: err}
	}

	iv, err := version.ParseInterval(rangeExpr)
	if err != nil {
		return nil, fail(err)
	}

	var (
		selected string
		best     *version.NuGetVersion
	)
	for i := range index.Items {
		candidate, ok := s.SelectInPage(&index.Items[i], iv)
		if !ok {
			continue
		}
		v, err := version.Parse(candidate)
		if err != nil {
			s.logger.Debug("Skipping unparseable page selection {Version}: {Error}", candidate, err)
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			selected = candidate
		}
	}

	if best == nil {
		return nil, fail(ErrNoMatchingVersion)
	}

	leaf := findLeaf(index, selected, best)
	if leaf == nil {
		return nil, fail(fmt.Errorf("%w: %s", ErrVersionNotListed, selected))
	}

	res := &Resolution{
		PackageID:    packageID,
		Version:      leaf.CatalogEntry.Version,
		CatalogEntry: leaf.CatalogEntry,
		ContentURL:   leaf.ContentURL(),
	}

	s.logger.Debug("Resolved {PackageId} {Range} to {Version}", packageID, iv.String(), res.Version)
	return res, nil
}

// findLeaf returns the leaf whose catalog version equals selected, or
// failing that the first one semantically equal to v.
func findLeaf(index *v3.RegistrationIndex, selected string, v *version.NuGetVersion) *v3.RegistrationLeaf {
	var semantic *v3.RegistrationLeaf
	for i := range index.Items {
		for j := range index.Items[i].Items {
			leaf := &index.Items[i].Items[j]
			if leaf.CatalogEntry == nil {
				continue
			}
			if leaf.CatalogEntry.Version == selected {
				return leaf
			}
			if semantic == nil {
				if lv, err := version.Parse(leaf.CatalogEntry.Version); err == nil && lv.Equals(v) {
					semantic = leaf
				}
			}
		}
	}
	return semantic
}
