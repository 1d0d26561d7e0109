// Package page computes navigable page counts for results served by a
// ranked index that refuses deep pagination.
package page

// Offset returns the ranked-hit offset of a 1-based page.
func Offset(pageNum, pageSize int) int {
	return (pageNum - 1) * pageSize
}

// Count returns the number of pages a caller may navigate: the natural page
// count capped by the deepest page the index tolerates. The ceiling is
// rounded to the nearest page boundary so a partial final page near the
// ceiling stays reachable.
func Count(totalHits, pageSize, hitCeiling int) int {
	natural := totalHits / pageSize
	lastAllowed := (hitCeiling + pageSize/2) / pageSize
	return min(natural, lastAllowed)
}

// ResultCount returns the total to report for a page. When a query returns
// fewer hits than a full page and no page is navigable, the reported total
// is the number of hits actually returned, so callers never see a nonzero
// total with zero navigable pages.
func ResultCount(totalHits, returned, pageSize, pageCount int) int {
	if returned < pageSize && pageCount == 0 {
		return returned
	}
	return totalHits
}
