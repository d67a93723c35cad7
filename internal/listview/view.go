package listview

import (
	"slices"

	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/shortener"
)

// View is a consistent snapshot of the list state.
type View struct {
	Loading       bool
	Query         string
	Page          int
	TotalPages    int
	PageNumbers   []int
	FilteredCount int
	Items         []shortener.ShortURL // the current page
}

// View returns a snapshot of the current page.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filtered()
	total := shortener.TotalPages(len(filtered), c.pageSize)
	start, end := shortener.PageBounds(len(filtered), c.page, c.pageSize)

	return View{
		Loading:       c.loading,
		Query:         c.query,
		Page:          c.page,
		TotalPages:    total,
		PageNumbers:   shortener.PageNumbers(total),
		FilteredCount: len(filtered),
		Items:         slices.Clone(filtered[start:end]),
	}
}

// Items returns a copy of the full, unfiltered collection.
func (c *Controller) Items() []shortener.ShortURL {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// Loading reports whether a Load is pending.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

func (c *Controller) filtered() []shortener.ShortURL {
	if c.query == "" {
		return c.items
	}

	return lo.Filter(c.items, func(u shortener.ShortURL, _ int) bool {
		return u.MatchesName(c.query)
	})
}

func (c *Controller) totalPages() int {
	return shortener.TotalPages(len(c.filtered()), c.pageSize)
}

// clampPage keeps the current page within [1, totalPages]; must be called with mu held.
func (c *Controller) clampPage() {
	c.page = min(c.page, max(c.totalPages(), 1))
	c.page = max(c.page, 1)
}
