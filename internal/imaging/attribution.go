package imaging

import "strings"

// AttributionText builds the credit line drawn under a watermarked image.
// Absent fields degrade: untitled works read "Untitled", unknown creators
// omit the by-clause, public-domain tools phrase as "is marked with".
func AttributionText(title, creator, license, version string) string {
	var b strings.Builder

	if title == "" {
		title = "Untitled"
	}
	b.WriteString(`"` + title + `"`)

	if creator != "" {
		b.WriteString(" by " + creator)
	}

	switch strings.ToLower(license) {
	case "":
		// no rights clause for records without a license code
	case "cc0":
		b.WriteString(" is marked with CC0")
	case "pdm":
		b.WriteString(" is marked with the Public Domain Mark")
	default:
		b.WriteString(" is licensed under CC " + strings.ToUpper(license))
	}

	if license != "" && version != "" {
		b.WriteString(" " + version)
	}

	b.WriteString(".")
	return b.String()
}
