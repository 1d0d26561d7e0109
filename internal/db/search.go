package db

// RankedQuery is the input for a relevance-ranked FT.SEARCH.
// Text is raw user input; the driver escapes it. TagFilters restrict hits to
// documents whose field matches any of the listed values.
type RankedQuery struct {
	IndexName    string
	Text         string
	TagFilters   map[string][]string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
