// Package imageproxy decides when image URLs are rewritten to route through
// the thumbnail proxy service.
package imageproxy

import (
	"fmt"
	"strings"
)

// Field names the hit field a decision targets.
type Field string

const (
	// FieldThumbnail targets the hit's thumbnail URL.
	FieldThumbnail Field = "thumbnail"
	// FieldURL targets the hit's full image URL.
	FieldURL Field = "url"
)

// Decision is the outcome of evaluating one hit against the policy.
// Proxied decisions always surface under the thumbnail field, whichever
// field they targeted: the page response has one display slot.
type Decision struct {
	Target     Field
	Proxied    bool
	ProxiedURL string
}

// Policy holds the proxy configuration applied to every hit.
type Policy struct {
	enabled  bool
	baseURL  string
	width    int
	proxyAll map[string]struct{}
}

// NewPolicy builds a proxy policy. proxyAll lists providers whose full image
// URL is always proxied, even over secure transport.
func NewPolicy(enabled bool, baseURL string, width int, proxyAll []string) Policy {
	set := make(map[string]struct{}, len(proxyAll))
	for _, p := range proxyAll {
		set[p] = struct{}{}
	}
	return Policy{enabled: enabled, baseURL: baseURL, width: width, proxyAll: set}
}

// Enabled reports whether the policy rewrites anything at all.
func (p Policy) Enabled() bool { return p.enabled }

// Decide evaluates one hit. The thumbnail is preferred when present, unless
// the provider is forced onto its full URL; the chosen value is proxied when
// it travels over plain http or the provider is always-proxied.
func (p Policy) Decide(provider, thumbnail, fullURL string) Decision {
	if !p.enabled {
		return Decision{}
	}

	_, forced := p.proxyAll[provider]

	target := FieldURL
	value := fullURL
	if thumbnail != "" && !forced {
		target = FieldThumbnail
		value = thumbnail
	}

	if !insecure(value) && !forced {
		return Decision{Target: target}
	}

	return Decision{
		Target:     target,
		Proxied:    true,
		ProxiedURL: fmt.Sprintf("%s/%d/%s", p.baseURL, p.width, value),
	}
}

// FullResolution rewrites an insecure image URL through the proxy without a
// width segment. Used by the detail view, where the client expects the
// original resolution.
func (p Policy) FullResolution(fullURL string) (string, bool) {
	if !p.enabled || !insecure(fullURL) {
		return fullURL, false
	}
	return fmt.Sprintf("%s/%s", p.baseURL, fullURL), true
}

func insecure(u string) bool {
	return strings.HasPrefix(u, "http://")
}
