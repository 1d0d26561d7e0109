package domain

// Hit is a single ranked record returned by the search index.
// Immutable once hydrated; Detail and Thumbnail are the only fields the
// assembly pipeline rewrites.
type Hit struct {
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
	Detail            string
	Score             float64
}

// ResultPage is the user-facing page of normalized hits.
// Results keep the index's relevance ordering.
type ResultPage struct {
	ResultCount int
	PageCount   int
	Results     []Hit
}

// SearchQuery carries validated search parameters into the assembler.
type SearchQuery struct {
	Text       string
	Licenses   []string
	FilterDead bool
	Page       int
	PageSize   int
}
