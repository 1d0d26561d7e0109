package domain

import "strings"

// License codes the catalog ingests. Filter validation rejects anything else.
var licenseCodes = map[string]bool{
	"by":       true,
	"by-nc":    true,
	"by-nc-nd": true,
	"by-nc-sa": true,
	"by-nd":    true,
	"by-sa":    true,
	"cc0":      true,
	"pdm":      true,
}

// License type groups. Commercial excludes the nc clause, modification
// excludes the nd clause.
var licenseTypes = map[string][]string{
	"commercial":   {"by", "by-sa", "by-nd", "cc0", "pdm"},
	"modification": {"by", "by-sa", "cc0", "pdm"},
}

// ValidLicense reports whether code is a known license code.
func ValidLicense(code string) bool {
	return licenseCodes[strings.ToLower(code)]
}

// LicensesForType expands a license type into its member license codes.
func LicensesForType(t string) ([]string, bool) {
	codes, ok := licenseTypes[strings.ToLower(t)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, true
}

// LicenseURL builds the canonical creativecommons.org URL for a license.
// Falls back to the current version of each deed when the record carries none.
func LicenseURL(code, version string) string {
	code = strings.ToLower(code)
	switch code {
	case "cc0":
		if version == "" {
			version = "1.0"
		}
		return "https://creativecommons.org/publicdomain/zero/" + version + "/"
	case "pdm":
		if version == "" {
			version = "1.0"
		}
		return "https://creativecommons.org/publicdomain/mark/" + version + "/"
	default:
		if version == "" {
			version = "4.0"
		}
		return "https://creativecommons.org/licenses/" + code + "/" + version + "/"
	}
}
