package v3

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.opentelemetry.io/otel/attribute"

	nugethttp "github.com/willibrandon/nudll/http"
	"github.com/willibrandon/nudll/observability"
)

// downloadBufferSize is the write buffer used when streaming an archive to disk.
const downloadBufferSize = 10 * 1024

// DownloadClient streams package archives to disk.
type DownloadClient struct {
	httpClient *nugethttp.Client
	logger     observability.Logger
}

// NewDownloadClient creates a new download client. A nil logger discards output.
func NewDownloadClient(httpClient *nugethttp.Client, logger observability.Logger) *DownloadClient {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &DownloadClient{httpClient: httpClient, logger: logger}
}

// DownloadArchive issues a single GET for url and writes the body to dest,
// creating or truncating it. It returns the number of bytes written.
// Downloads are not retried.
func (c *DownloadClient) DownloadArchive(ctx context.Context, url, dest string) (n int64, err error) {
	ctx, span := observability.StartSpan(ctx, "nudll.download",
		attribute.String("url.full", url),
		attribute.String("nudll.archive.path", dest))
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		observability.PackageDownloadsTotal.WithLabelValues(status).Inc()
		span.SetAttributes(attribute.Int64("nudll.archive.bytes", n))
		observability.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("download %s returned %d: %s", url, resp.StatusCode, body)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create archive file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive file: %w", cerr)
		}
	}()

	w := bufio.NewWriterSize(f, downloadBufferSize)
	n, err = io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write archive: %w", err)
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("flush archive: %w", err)
	}

	observability.PackageDownloadBytes.Add(float64(n))
	c.logger.DebugContext(ctx, "Downloaded {Bytes} bytes from {URL} to {Path}", n, url, dest)

	return n, nil
}
