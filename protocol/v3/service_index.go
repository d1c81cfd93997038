package v3

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	nugethttp "github.com/willibrandon/nudll/http"
)

// ServiceIndexClient provides access to NuGet v3 service index.
type ServiceIndexClient struct {
	httpClient *nugethttp.Client
}

// NewServiceIndexClient creates a new service index client.
func NewServiceIndexClient(httpClient *nugethttp.Client) *ServiceIndexClient {
	return &ServiceIndexClient{httpClient: httpClient}
}

// GetServiceIndex fetches the service index. sourceURL may be the index
// document itself or a feed root, in which case "/index.json" is appended.
func (c *ServiceIndexClient) GetServiceIndex(ctx context.Context, sourceURL string) (*ServiceIndex, error) {
	indexURL := sourceURL
	if !strings.HasSuffix(indexURL, ".json") {
		indexURL = strings.TrimSuffix(indexURL, "/") + "/index.json"
	}

	resp, err := c.httpClient.GetWithRetry(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch service index: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("service index returned %d: %s", resp.StatusCode, body)
	}

	var index ServiceIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("decode service index: %w", err)
	}

	return &index, nil
}

// DiscoverRegistrationsURL returns the registrations base URL advertised by
// the service index at sourceURL.
func (c *ServiceIndexClient) DiscoverRegistrationsURL(ctx context.Context, sourceURL string) (string, error) {
	index, err := c.GetServiceIndex(ctx, sourceURL)
	if err != nil {
		return "", err
	}
	return index.ResourceURL(ResourceTypeRegistrationsBaseURL)
}

// ResourceURL returns the @id of the first resource of resourceType. An exact
// type match wins over a versioned one (e.g. "RegistrationsBaseUrl/3.6.0").
func (idx *ServiceIndex) ResourceURL(resourceType string) (string, error) {
	for _, resource := range idx.Resources {
		if resource.Type == resourceType {
			return resource.ID, nil
		}
	}
	for _, resource := range idx.Resources {
		if strings.HasPrefix(resource.Type, resourceType+"/") {
			return resource.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrResourceNotFound, resourceType)
}
