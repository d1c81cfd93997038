package v3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	nugethttp "github.com/willibrandon/nudll/http"
	"github.com/willibrandon/nudll/observability"
)

// RegistrationClient fetches registration documents.
type RegistrationClient struct {
	httpClient *nugethttp.Client
	logger     observability.Logger
}

// NewRegistrationClient creates a registration client. A nil logger discards output.
func NewRegistrationClient(httpClient *nugethttp.Client, logger observability.Logger) *RegistrationClient {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &RegistrationClient{httpClient: httpClient, logger: logger}
}

// RegistrationIndexURL builds {baseURL}/{lowercase id}/index.json.
func RegistrationIndexURL(baseURL, packageID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.ToLower(packageID) + "/index.json"
}

// FetchRegistrationIndex fetches the registration index for packageID.
// Pages the server did not inline are fetched one after another from their
// @id so every returned page carries its catalog entries.
func (c *RegistrationClient) FetchRegistrationIndex(ctx context.Context, baseURL, packageID string) (*RegistrationIndex, error) {
	var index RegistrationIndex
	if err := c.getJSON(ctx, RegistrationIndexURL(baseURL, packageID), &index); err != nil {
		if err == errNotFound {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, packageID)
		}
		return nil, fmt.Errorf("fetch registration for %s: %w", packageID, err)
	}

	for i := range index.Items {
		page := &index.Items[i]
		if len(page.Items) > 0 || page.ID == "" {
			continue
		}

		c.logger.DebugContext(ctx, "Fetching registration page {Lower}..{Upper} for {PackageId}",
			page.Lower, page.Upper, packageID)

		var full RegistrationPage
		if err := c.getJSON(ctx, page.ID, &full); err != nil {
			return nil, fmt.Errorf("fetch registration page %s: %w", page.ID, err)
		}
		*page = full
	}

	return &index, nil
}

var errNotFound = errors.New("not found")

func (c *RegistrationClient) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.httpClient.GetWithRetry(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
