package shortener

// Pagination describes one page of a paginated collection.
type Pagination struct {
	Total      int
	Limit      int
	Page       int
	TotalPages int
}

// TotalPages returns ceil(total / limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

// PageNumbers returns the valid page numbers 1..totalPages.
func PageNumbers(totalPages int) []int {
	pages := make([]int, 0, max(totalPages, 0))
	for i := 1; i <= totalPages; i++ {
		pages = append(pages, i)
	}

	return pages
}

// PageBounds returns the [start, end) slice bounds of page within count items.
func PageBounds(count, page, size int) (int, int) {
	if page < 1 || size <= 0 {
		return 0, 0
	}

	start := min((page-1)*size, count)
	end := min(start+size, count)

	return start, end
}
