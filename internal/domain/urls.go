package domain

import "net/url"

// EnsureScheme prefixes https:// onto URLs stored without a scheme component.
// URLs that already carry a scheme pass through unchanged, including plain
// http ones: repair never upgrades transport. Query strings, fragments, and
// host casing are untouched.
func EnsureScheme(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.Scheme == "" {
		return "https://" + raw
	}
	return raw
}
