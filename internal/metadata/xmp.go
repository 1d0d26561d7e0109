package metadata

import (
	"encoding/xml"
	"strings"
)

// xmpHeader is the APP1 signature for XMP packets, NUL included.
const xmpHeader = "http://ns.adobe.com/xap/1.0/\x00"

// Provenance is the rights block embedded into watermarked images.
type Provenance struct {
	Creator         string
	LicenseURL      string
	Attribution     string
	WorkLandingPage string
	Identifier      string
}

// XMPPacket serializes the provenance set as an RDF/XML packet using the
// ccREL vocabulary. Empty fields are omitted; the Marked flag is always set
// since every delivered work carries a public license.
func XMPPacket(p Provenance) ([]byte, error) {
	var b strings.Builder

	b.WriteString(`<?xpacket begin="` + "\uFEFF" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>` + "\n")
	b.WriteString(`<x:xmpmeta xmlns:x="adobe:ns:meta/">` + "\n")
	b.WriteString(` <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n")
	b.WriteString(`  <rdf:Description rdf:about=""` + "\n")
	b.WriteString(`    xmlns:cc="http://creativecommons.org/ns#"` + "\n")
	b.WriteString(`    xmlns:dc="http://purl.org/dc/elements/1.1/"` + "\n")
	b.WriteString(`    xmlns:xmpRights="http://ns.adobe.com/xap/1.0/rights/">` + "\n")

	b.WriteString(`   <xmpRights:Marked>True</xmpRights:Marked>` + "\n")
	if p.LicenseURL != "" {
		b.WriteString(`   <cc:license rdf:resource="` + escapeXML(p.LicenseURL) + `"/>` + "\n")
	}
	if p.Creator != "" {
		b.WriteString(`   <cc:attributionName>` + escapeXML(p.Creator) + `</cc:attributionName>` + "\n")
	}
	if p.WorkLandingPage != "" {
		b.WriteString(`   <cc:attributionURL rdf:resource="` + escapeXML(p.WorkLandingPage) + `"/>` + "\n")
	}
	if p.Attribution != "" {
		b.WriteString(`   <xmpRights:UsageTerms>` + escapeXML(p.Attribution) + `</xmpRights:UsageTerms>` + "\n")
	}
	if p.Identifier != "" {
		b.WriteString(`   <dc:identifier>` + escapeXML(p.Identifier) + `</dc:identifier>` + "\n")
	}

	b.WriteString(`  </rdf:Description>` + "\n")
	b.WriteString(` </rdf:RDF>` + "\n")
	b.WriteString(`</x:xmpmeta>` + "\n")
	b.WriteString(`<?xpacket end="r"?>`)

	return []byte(b.String()), nil
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
