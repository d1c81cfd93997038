// Package v3 implements the parts of the NuGet v3 protocol nudll needs:
// service index discovery, registration (metadata) pages and archive download.
package v3

import "errors"

// DefaultServiceIndexURL is the nuget.org service index.
const DefaultServiceIndexURL = "https://api.nuget.org/v3/index.json"

// ResourceTypeRegistrationsBaseURL is the service index type of the registration resource.
const ResourceTypeRegistrationsBaseURL = "RegistrationsBaseUrl"

var (
	// ErrResourceNotFound indicates the service index lacks a required resource.
	ErrResourceNotFound = errors.New("resource not found in service index")

	// ErrPackageNotFound indicates the feed has no registration for a package.
	ErrPackageNotFound = errors.New("package not found")
)

// ServiceIndex represents the NuGet v3 service index.
// See: https://learn.microsoft.com/en-us/nuget/api/service-index
type ServiceIndex struct {
	Version   string     `json:"version"`
	Resources []Resource `json:"resources"`
}

// Resource represents a service resource in the service index.
type Resource struct {
	ID      string `json:"@id"`
	Type    string `json:"@type"`
	Comment string `json:"comment,omitempty"`
}

// RegistrationIndex is the per-package registration document.
type RegistrationIndex struct {
	Count int                `json:"count"`
	Items []RegistrationPage `json:"items"`
}

// RegistrationPage covers the versions between Lower and Upper. Items may be
// omitted by the server, in which case the page must be fetched from ID.
type RegistrationPage struct {
	ID    string             `json:"@id"`
	Count int                `json:"count"`
	Items []RegistrationLeaf `json:"items,omitempty"`
	Lower string             `json:"lower"`
	Upper string             `json:"upper"`
}

// RegistrationLeaf is one concrete package version.
type RegistrationLeaf struct {
	ID             string        `json:"@id"`
	CatalogEntry   *CatalogEntry `json:"catalogEntry"`
	PackageContent string        `json:"packageContent"`
}

// CatalogEntry is the metadata for one package version.
type CatalogEntry struct {
	ID               string            `json:"@id"`
	PackageID        string            `json:"id"`
	Version          string            `json:"version"`
	PackageContent   string            `json:"packageContent,omitempty"`
	Listed           *bool             `json:"listed,omitempty"`
	DependencyGroups []DependencyGroup `json:"dependencyGroups,omitempty"`
}

// DependencyGroup represents dependencies for a specific target framework.
type DependencyGroup struct {
	TargetFramework string       `json:"targetFramework,omitempty"`
	Dependencies    []Dependency `json:"dependencies,omitempty"`
}

// Dependency is a package id plus a version range expression.
type Dependency struct {
	ID    string `json:"id"`
	Range string `json:"range,omitempty"`
}

// ContentURL returns the archive download URL of the leaf, preferring the
// catalog entry's packageContent.
func (l *RegistrationLeaf) ContentURL() string {
	if l.CatalogEntry != nil && l.CatalogEntry.PackageContent != "" {
		return l.CatalogEntry.PackageContent
	}
	return l.PackageContent
}
