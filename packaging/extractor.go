package packaging

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/willibrandon/nudll/observability"
)

// LibFolder is the archive folder holding per-framework binaries.
const LibFolder = "lib"

// BinaryExtension is the file extension copied out of the binaries root.
const BinaryExtension = ".dll"

// Extractor unpacks archives and copies the binaries for one framework
// moniker into a flat output directory.
type Extractor struct {
	// Moniker is the lib/ subfolder to take binaries from, e.g. "net6.0".
	Moniker string

	// Logger receives extraction diagnostics (optional)
	Logger observability.Logger
}

// ExtractResult describes one extraction.
type ExtractResult struct {
	// ExtractedFiles is the number of archive entries written to the extraction directory.
	ExtractedFiles int

	// BinariesRoot is the directory the binaries were copied from, empty when
	// the archive has no usable lib folder.
	BinariesRoot string

	// Copied lists the file names written to the output directory.
	Copied []string
}

// NewExtractor creates an extractor for moniker.
func NewExtractor(moniker string, logger observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Extractor{Moniker: moniker, Logger: logger}
}

// Extract unzips archivePath into extractDir, then copies every binary under
// the binaries root into outputDir. An archive without a binaries root
// contributes nothing and is not an error.
func (e *Extractor) Extract(ctx context.Context, archivePath, extractDir, outputDir string) (result *ExtractResult, err error) {
	_, span := observability.StartSpan(ctx, "nudll.extract",
		attribute.String("nudll.archive.path", archivePath),
		attribute.String("nudll.framework", e.Moniker))
	defer func() { observability.EndSpan(span, err) }()

	logger := e.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	result = &ExtractResult{}

	result.ExtractedFiles, err = unzip(archivePath, extractDir)
	if err != nil {
		return nil, err
	}

	root, err := FindBinariesRoot(extractDir, e.Moniker)
	if err != nil {
		return nil, err
	}
	if root == "" {
		logger.DebugContext(ctx, "No binaries root for {Framework} in {Archive}", e.Moniker, archivePath)
		return result, nil
	}
	result.BinariesRoot = root

	if err := os.MkdirAll(outputDir, dirMode); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		// Upper-case extensions (FOO.DLL) occur in older packages.
		if d.IsDir() || !IsBinary(d.Name()) {
			return nil
		}
		if err := CopyFile(p, filepath.Join(outputDir, d.Name())); err != nil {
			return fmt.Errorf("copy %s: %w", d.Name(), err)
		}
		result.Copied = append(result.Copied, d.Name())
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.BinariesCopiedTotal.Add(float64(len(result.Copied)))
	span.SetAttributes(attribute.Int("nudll.binaries.copied", len(result.Copied)))
	logger.DebugContext(ctx, "Copied {Count} binaries from {Root}", len(result.Copied), root)

	return result, nil
}

// IsBinary reports whether name has the library extension, ignoring case.
func IsBinary(name string) bool {
	return strings.EqualFold(filepath.Ext(name), BinaryExtension)
}

// FindBinariesRoot returns lib/<moniker> under extractDir when it exists
// (matching the folder name case-insensitively), otherwise the only
// subdirectory of lib. It returns "" when lib is missing, empty or has
// several subdirectories none of which is the moniker.
func FindBinariesRoot(extractDir, moniker string) (string, error) {
	libDir := filepath.Join(extractDir, LibFolder)

	entries, err := os.ReadDir(libDir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read lib folder: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() == moniker {
			return filepath.Join(libDir, entry.Name()), nil
		}
		dirs = append(dirs, entry.Name())
	}

	// Some packages ship lib/Net6.0 and similar casings.
	for _, name := range dirs {
		if strings.EqualFold(name, moniker) {
			return filepath.Join(libDir, name), nil
		}
	}

	if len(dirs) == 1 {
		return filepath.Join(libDir, dirs[0]), nil
	}
	return "", nil
}

// unzip writes every file entry of archivePath beneath dest.
func unzip(archivePath, dest string) (int, error) {
	reader, err := OpenPackage(archivePath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	count := 0
	for _, file := range reader.Files() {
		name := NormalizePath(file.Name)
		if err := ValidatePackagePath(name); err != nil {
			return count, fmt.Errorf("%w: %q", err, file.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") || file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode); err != nil {
				return count, fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return count, fmt.Errorf("%w: open %s: %v", ErrInvalidPackage, file.Name, err)
		}
		_, err = CopyToFile(rc, target)
		_ = rc.Close()
		if err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
