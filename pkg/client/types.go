package imagery

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// SearchOptions tunes a search request. The zero value asks for the server's
// defaults.
type SearchOptions struct {
	Page        int
	PageSize    int
	Licenses    []string // license codes, e.g. "by", "cc0"
	LicenseType string   // "commercial" or "modification"; exclusive with Licenses
	FilterDead  bool
}

// Image is one search result.
type Image struct {
	Identifier        string   `json:"identifier"`
	Title             string   `json:"title"`
	Creator           string   `json:"creator,omitempty"`
	CreatorURL        string   `json:"creator_url,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	URL               string   `json:"url"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	Provider          string   `json:"provider"`
	Source            string   `json:"source,omitempty"`
	License           string   `json:"license"`
	LicenseVersion    string   `json:"license_version,omitempty"`
	LicenseURL        string   `json:"license_url,omitempty"`
	ForeignLandingURL string   `json:"foreign_landing_url"`
	Detail            string   `json:"detail"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	ResultCount int     `json:"result_count"`
	PageCount   int     `json:"page_count"`
	Results     []Image `json:"results"`
}

// ImageDetail is the full record for one image. Provider carries the
// resolved display name; the raw source identifier stays in Source.
type ImageDetail struct {
	Identifier        string   `json:"identifier"`
	Title             string   `json:"title"`
	Creator           string   `json:"creator,omitempty"`
	CreatorURL        string   `json:"creator_url,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	URL               string   `json:"url"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	Provider          string   `json:"provider"`
	ProviderURL       string   `json:"provider_url"`
	Source            string   `json:"source,omitempty"`
	License           string   `json:"license"`
	LicenseVersion    string   `json:"license_version,omitempty"`
	LicenseURL        string   `json:"license_url,omitempty"`
	ForeignLandingURL string   `json:"foreign_landing_url"`
	Attribution       string   `json:"attribution,omitempty"`
	ViewCount         int64    `json:"view_count"`
}

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode       int
	Detail           string
	ValidationFields map[string]string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "imagery: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.ValidationFields) > 0 {
		keys := make([]string, 0, len(e.ValidationFields))
		for k := range e.ValidationFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ": %s: %s", k, e.ValidationFields[k])
		}
		return b.String()
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsValidation reports whether err is an APIError with status 400.
func IsValidation(err error) bool {
	return statusIs(err, http.StatusBadRequest)
}

func statusIs(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == status
}
