package domain

// ImageRecord is the full stored representation of one image.
type ImageRecord struct {
	Identifier        string
	Title             string
	Creator           string
	CreatorURL        string
	Tags              []string
	URL               string
	Thumbnail         string
	Provider          string
	Source            string
	License           string
	LicenseVersion    string
	LicenseURL        string
	ForeignLandingURL string
	Attribution       string
}

// Provider is the display metadata for a content source.
type Provider struct {
	Identifier  string
	DisplayName string
	DomainURL   string
}

// ImageDetail is an ImageRecord enriched for the detail view: resolved
// provider display fields and the current view count.
type ImageDetail struct {
	ImageRecord

	ProviderName string
	ProviderURL  string
	ViewCount    int64
}
