// Package packaging reads .nupkg archives and pulls their library binaries
// out for a single target framework.
package packaging

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"strings"
)

// PackageReader provides read access to .nupkg files.
type PackageReader struct {
	zipReader *zip.ReadCloser
}

// OpenPackage opens a .nupkg file from a file path.
func OpenPackage(archivePath string) (*PackageReader, error) {
	zipReader, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = zipReader.Close()
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, archivePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackage, archivePath, err)
	}
	return &PackageReader{zipReader: zipReader}, nil
}

// Close closes the package reader.
func (r *PackageReader) Close() error {
	if r.zipReader == nil {
		return nil
	}
	return r.zipReader.Close()
}

// Files returns the list of files in the ZIP.
func (r *PackageReader) Files() []*zip.File {
	return r.zipReader.File
}

// NormalizePath converts backslashes to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// ValidatePackagePath rejects entry names that would escape the extraction
// directory: parent segments, absolute paths, drive letters and empty names.
func ValidatePackagePath(filePath string) error {
	normalized := NormalizePath(filePath)

	if strings.TrimSpace(normalized) == "" {
		return ErrInvalidPath
	}

	if strings.HasPrefix(normalized, "/") || path.IsAbs(normalized) {
		return ErrInvalidPath
	}

	if len(normalized) >= 2 && normalized[1] == ':' {
		return ErrInvalidPath
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return ErrInvalidPath
		}
	}

	return nil
}
