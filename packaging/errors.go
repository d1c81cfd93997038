package packaging

import "errors"

var (
	// ErrInvalidPackage indicates the archive is not a readable zip
	ErrInvalidPackage = errors.New("invalid package archive")

	// ErrInvalidPath indicates an invalid file path (e.g., path traversal)
	ErrInvalidPath = errors.New("invalid file path")
)
