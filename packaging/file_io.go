package packaging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// CreateFile creates or truncates path, creating parent directories as needed.
func CreateFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
}

// CopyToFile writes stream to path, replacing any existing file.
func CopyToFile(stream io.Reader, path string) (int64, error) {
	file, err := CreateFile(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(file, stream)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("copy stream to %s: %w", path, err)
	}
	return n, nil
}

// CopyFile copies src to dst, overwriting dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	_, err = CopyToFile(in, dst)
	return err
}
