// file: internal/metadata/pagination.go
// version: 1.0.0
// guid: d4f8a1c6-2e7b-4d90-853c-7a1f9e6b0d24

package metadata

// PageLimit is the fixed number of items requested from every upstream page.
// All providers use the same page size so envelope pagination math stays
// uniform across sources.
const PageLimit = 20

// HasNextPage reports whether another page exists after the given 1-based
// page, based on the upstream's total match count.
func HasNextPage(total, page, pageSize int) bool {
	if page < 1 {
		page = 1
	}
	return total-page*pageSize > 0
}

// NextPage returns the next 1-based page number, or nil when the given page
// is the last one.
func NextPage(total, page, pageSize int) *int {
	if !HasNextPage(total, page, pageSize) {
		return nil
	}
	if page < 1 {
		page = 1
	}
	next := page + 1
	return &next
}

// NewSearchResults assembles the envelope for one page of search results.
// page is the 1-based page the items came from.
func NewSearchResults(total int, items []SearchResultItem, page int) *SearchResults {
	return &SearchResults{
		Total:    total,
		Items:    items,
		NextPage: NextPage(total, page, PageLimit),
	}
}
