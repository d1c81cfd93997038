package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/willibrandon/nudll/frameworks"
	"github.com/willibrandon/nudll/observability"
	"github.com/willibrandon/nudll/packaging"
	v3 "github.com/willibrandon/nudll/protocol/v3"
)

const (
	// DefaultMaxDepth bounds the dependency chain length.
	DefaultMaxDepth = 64

	// FrameworkPackagePrefix marks dependencies supplied by the runtime itself.
	FrameworkPackagePrefix = "System."

	separatorWidth = 50
)

// ErrMaxDepthExceeded indicates a dependency chain longer than MaxDepth,
// usually a cycle in the graph.
var ErrMaxDepthExceeded = errors.New("maximum dependency depth exceeded")

// RegistrationFetcher fetches registration documents.
type RegistrationFetcher interface {
	FetchRegistrationIndex(ctx context.Context, baseURL, packageID string) (*v3.RegistrationIndex, error)
}

// ArchiveDownloader writes a package archive to disk.
type ArchiveDownloader interface {
	DownloadArchive(ctx context.Context, url, dest string) (int64, error)
}

// ArchiveExtractor copies binaries out of a package archive.
type ArchiveExtractor interface {
	Extract(ctx context.Context, archivePath, extractDir, outputDir string) (*packaging.ExtractResult, error)
}

// WalkerConfig configures a Walker.
type WalkerConfig struct {
	// RegistrationsURL is the registrations base URL from the service index.
	RegistrationsURL string

	// Framework is the target framework moniker used to pick dependency groups.
	Framework string

	// TempDir holds downloaded archives and extraction folders.
	TempDir string

	// OutputDir receives every copied binary.
	OutputDir string

	// MaxDepth bounds dependency chains. Zero uses DefaultMaxDepth.
	MaxDepth int

	// Out receives progress lines. Nil discards them.
	Out io.Writer

	Logger observability.Logger
}

// Walker visits a package and its dependency closure depth-first,
// downloading and extracting every package it reaches. Packages reached
// through several edges are processed once per edge.
type Walker struct {
	registrations RegistrationFetcher
	downloader    ArchiveDownloader
	extractor     ArchiveExtractor
	selector      *Selector
	cfg           WalkerConfig
	logger        observability.Logger
}

// PackageResult records one processed package.
type PackageResult struct {
	ID           string
	Version      string
	Range        string
	Depth        int
	ArchivePath  string
	ArchiveBytes int64
	Binaries     []string
	Dependencies []v3.Dependency
}

// WalkResult summarizes a walk.
type WalkResult struct {
	// Packages lists processed packages in processing order.
	Packages []PackageResult

	// Files lists the distinct binary names written to the output directory.
	Files []string
}

// NewWalker creates a dependency walker.
func NewWalker(cfg WalkerConfig, registrations RegistrationFetcher, downloader ArchiveDownloader, extractor ArchiveExtractor) *Walker {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if isNilWriter(cfg.Out) {
		cfg.Out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Walker{
		registrations: registrations,
		downloader:    downloader,
		extractor:     extractor,
		selector:      NewSelector(logger),
		cfg:           cfg,
		logger:        logger,
	}
}

// isNilWriter also catches a nil pointer wrapped in the interface.
func isNilWriter(w io.Writer) bool {
	if w == nil {
		return true
	}
	v := reflect.ValueOf(w)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

type workItem struct {
	packageID string
	rangeExpr string
	depth     int
	parent    *workItem
}

// chain renders the path from the root to this item, e.g. "A -> B -> C".
func (it *workItem) chain() string {
	var ids []string
	for n := it; n != nil; n = n.parent {
		ids = append(ids, n.packageID)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return strings.Join(ids, " -> ")
}

// Walk processes packageID at rangeExpr, then every dependency it declares
// for the configured framework. An empty range selects the latest version.
// Any failure stops the walk; the partial result is returned with the error.
func (w *Walker) Walk(ctx context.Context, packageID, rangeExpr string) (result *WalkResult, err error) {
	ctx, span := observability.StartSpan(ctx, "nudll.walk",
		attribute.String("nudll.package.id", packageID),
		attribute.String("nudll.package.range", rangeExpr),
		attribute.String("nudll.framework", w.cfg.Framework))
	defer func() { observability.EndSpan(span, err) }()

	result = &WalkResult{}
	seenFiles := make(map[string]bool)

	stack := []*workItem{{packageID: packageID, rangeExpr: rangeExpr}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.parent != nil {
			_, _ = fmt.Fprintf(w.cfg.Out, "%s %s\n", item.packageID, item.rangeExpr)
		}

		if item.depth > w.cfg.MaxDepth {
			return result, fmt.Errorf("%w (%d): %s", ErrMaxDepthExceeded, w.cfg.MaxDepth, item.chain())
		}

		pkg, err := w.processPackage(ctx, item)
		if err != nil {
			observability.PackagesProcessedTotal.WithLabelValues("failed").Inc()
			if item.parent != nil {
				return result, fmt.Errorf("dependency %s: %w", item.chain(), err)
			}
			return result, err
		}
		observability.PackagesProcessedTotal.WithLabelValues("extracted").Inc()

		result.Packages = append(result.Packages, *pkg)
		for _, name := range pkg.Binaries {
			if !seenFiles[name] {
				seenFiles[name] = true
				result.Files = append(result.Files, name)
			}
		}

		// Reverse push keeps declared order when popping.
		for i := len(pkg.Dependencies) - 1; i >= 0; i-- {
			dep := pkg.Dependencies[i]
			stack = append(stack, &workItem{
				packageID: dep.ID,
				rangeExpr: dep.Range,
				depth:     item.depth + 1,
				parent:    item,
			})
		}
	}

	w.logger.InfoContext(ctx, "Processed {PackageCount} packages, {FileCount} binaries",
		len(result.Packages), len(result.Files))
	return result, nil
}

func (w *Walker) processPackage(ctx context.Context, item *workItem) (pkg *PackageResult, err error) {
	ctx, span := observability.StartSpan(ctx, "nudll.package",
		attribute.String("nudll.package.id", item.packageID),
		attribute.String("nudll.package.range", item.rangeExpr),
		attribute.Int("nudll.depth", item.depth))
	defer func() { observability.EndSpan(span, err) }()

	logger := w.logger.ForContext("PackageId", item.packageID)

	_, _ = fmt.Fprintln(w.cfg.Out, strings.Repeat("-", separatorWidth))

	index, err := w.registrations.FetchRegistrationIndex(ctx, w.cfg.RegistrationsURL, item.packageID)
	if err != nil {
		return nil, err
	}

	res, err := w.selector.Select(index, item.packageID, item.rangeExpr)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("nudll.package.version", res.Version))

	_, _ = fmt.Fprintf(w.cfg.Out, "%s %s count: %d\n", item.packageID, res.Version, index.Count)

	if res.ContentURL == "" {
		return nil, fmt.Errorf("%s %s: catalog entry has no packageContent", item.packageID, res.Version)
	}

	archivePath := filepath.Join(w.cfg.TempDir, fmt.Sprintf("%s.%s.nupkg", strings.ToLower(item.packageID), res.Version))
	n, err := w.downloader.DownloadArchive(ctx, res.ContentURL, archivePath)
	if err != nil {
		return nil, err
	}

	extractDir := filepath.Join(w.cfg.TempDir, item.packageID, res.Version)
	extracted, err := w.extractor.Extract(ctx, archivePath, extractDir, w.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("extract %s %s: %w", item.packageID, res.Version, err)
	}

	pkg = &PackageResult{
		ID:           item.packageID,
		Version:      res.Version,
		Range:        item.rangeExpr,
		Depth:        item.depth,
		ArchivePath:  archivePath,
		ArchiveBytes: n,
	}
	if extracted != nil {
		pkg.Binaries = extracted.Copied
	}

	for _, dep := range DependenciesFor(res.CatalogEntry, w.cfg.Framework) {
		if strings.HasPrefix(dep.ID, FrameworkPackagePrefix) {
			logger.Verbose("Skipping framework package {Dependency}", dep.ID)
			continue
		}
		pkg.Dependencies = append(pkg.Dependencies, dep)
	}

	logger.Debug("Extracted {Version}: {BinaryCount} binaries, {DependencyCount} dependencies",
		res.Version, len(pkg.Binaries), len(pkg.Dependencies))
	return pkg, nil
}

// DependenciesFor returns the dependencies of every group whose target
// framework names the same framework as moniker. Groups for other
// frameworks, including compatible ones, are ignored.
func DependenciesFor(entry *v3.CatalogEntry, moniker string) []v3.Dependency {
	if entry == nil {
		return nil
	}
	var deps []v3.Dependency
	for _, group := range entry.DependencyGroups {
		if frameworks.Matches(group.TargetFramework, moniker) {
			deps = append(deps, group.Dependencies...)
		}
	}
	return deps
}
