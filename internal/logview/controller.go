// Package logview holds the paginated visitor log of a single short URL.
package logview

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/serroba/shorturl-console/internal/notify"
	"github.com/serroba/shorturl-console/internal/shortener"
	"github.com/serroba/shorturl-console/internal/visitlog"
	"go.uber.org/zap"
)

// LogService fetches one page of a visitor log.
type LogService interface {
	FetchPage(ctx context.Context, urlID string, page, pageSize int) (visitlog.Page, error)
}

// Controller tracks the current page of one URL's visitor log.
type Controller struct {
	service  LogService
	notifier notify.Notifier
	logger   *zap.Logger
	urlID    string
	pageSize int

	mu         sync.Mutex
	page       int
	entries    []shortener.VisitorLogEntry
	pagination shortener.Pagination
	loading    bool
	seq        uint64
}

// New creates a controller for the log of the URL with the given resource id.
// A pageSize of zero or less uses visitlog.DefaultPageSize.
func New(service LogService, urlID string, pageSize int, notifier notify.Notifier, logger *zap.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = visitlog.DefaultPageSize
	}

	return &Controller{
		service:  service,
		notifier: notifier,
		logger:   logger.With(zap.String("url_id", urlID)),
		urlID:    urlID,
		pageSize: pageSize,
		page:     1,
		entries:  []shortener.VisitorLogEntry{},
		pagination: shortener.Pagination{
			Total:      0,
			Limit:      pageSize,
			Page:       1,
			TotalPages: 1,
		},
	}
}

// SetPage fetches page n and replaces the entries with its content.
// On failure the previous page stays in place. Responses to superseded calls are discarded.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()

	page, err := c.service.FetchPage(ctx, c.urlID, n, c.pageSize)

	c.mu.Lock()

	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale log page", zap.Int("page", n))

		return err
	}

	c.loading = false

	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("failed to fetch visitor log", zap.Int("page", n), zap.Error(err))
		c.notifier.Notify(ctx, notify.Error(fmt.Sprintf("Failed to load visitor log: %v", err)))

		return err
	}

	c.page = n
	c.entries = page.Entries
	c.pagination = page.Pagination
	c.mu.Unlock()

	return nil
}

// URLID returns the resource id whose log is shown.
func (c *Controller) URLID() string {
	return c.urlID
}

// Page returns the page of the current entries.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.page
}

// Entries returns the entries of the current page.
func (c *Controller) Entries() []shortener.VisitorLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.entries)
}

// Pagination returns the pagination last reported by the server.
func (c *Controller) Pagination() shortener.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pagination
}

// Loading reports whether a fetch is pending.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

// PageNumbers returns the selectable pages; empty when there is only one page.
func (c *Controller) PageNumbers() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pagination.TotalPages <= 1 {
		return []int{}
	}

	return shortener.PageNumbers(c.pagination.TotalPages)
}
