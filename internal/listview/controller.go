// Package listview holds the state of the short URL list: the fetched collection,
// the name filter, local pagination and the create/edit form.
package listview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/confirm"
	"github.com/serroba/shorturl-console/internal/export"
	"github.com/serroba/shorturl-console/internal/notify"
	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of links shown per page.
const DefaultPageSize = 5

// ErrNoEditor is returned by Submit when no form is open.
var ErrNoEditor = errors.New("no form open")

// URLService is the remote collection the controller mirrors.
type URLService interface {
	List(ctx context.Context) ([]shortener.ShortURL, error)
	Create(ctx context.Context, longURL, name string, expiresAt *time.Time) (shortener.ShortURL, error)
	Update(ctx context.Context, code shortener.Code, longURL, name string, expiry shortener.Expiry) (shortener.ShortURL, error)
	Delete(ctx context.Context, code shortener.Code) error
}

// Input is the content of the create/edit form.
type Input struct {
	LongURL string `validate:"required,http_url"`
	Name    string `validate:"required"`
	Expiry  shortener.Expiry
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithClock overrides the time source used to reject past expirations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller is safe for concurrent use. The collection is only mutated through its methods.
type Controller struct {
	service   URLService
	confirmer confirm.Confirmer
	notifier  notify.Notifier
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	pageSize  int

	mu         sync.Mutex
	items      []shortener.ShortURL
	query      string
	page       int
	loading    bool
	seq        uint64
	editorOpen bool
	editing    *shortener.ShortURL
}

// New creates a list controller. Call Load to fetch the collection.
func New(
	service URLService,
	confirmer confirm.Confirmer,
	notifier notify.Notifier,
	logger *zap.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		service:   service,
		confirmer: confirmer,
		notifier:  notifier,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
		pageSize:  DefaultPageSize,
		items:     []shortener.ShortURL{},
		page:      1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Load fetches the full collection. While pending the collection is empty.
// A response is applied only if no later Load was issued in the meantime.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.items = []shortener.ShortURL{}
	c.loading = true
	c.mu.Unlock()

	list, err := c.service.List(ctx)

	c.mu.Lock()

	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale list response", zap.Uint64("seq", seq))

		return err
	}

	c.loading = false

	if err == nil && list != nil {
		c.items = list
	}

	c.clampPage()
	c.mu.Unlock()

	if err != nil {
		c.notifyFailure(ctx, "Failed to load URLs", err)

		return err
	}

	return nil
}

// SetSearchQuery filters the list by name and returns to the first page.
func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = q
	c.page = 1
}

// Paginate moves to page n and reports whether n was a valid page.
func (c *Controller) Paginate(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 || n > c.totalPages() {
		return false
	}

	c.page = n

	return true
}

// Create shortens a new link and prepends it to the collection.
func (c *Controller) Create(ctx context.Context, in Input) (shortener.ShortURL, error) {
	in, err := c.checkInput(in)
	if err != nil {
		c.notifyFailure(ctx, "Invalid form", err)

		return shortener.ShortURL{}, err
	}

	var expiresAt *time.Time
	if at, ok := in.Expiry.Time(); ok {
		expiresAt = &at
	}

	created, err := c.service.Create(ctx, in.LongURL, in.Name, expiresAt)
	if err != nil {
		c.notifyFailure(ctx, "Failed to create URL", err)

		return shortener.ShortURL{}, err
	}

	c.mu.Lock()
	c.items = slices.Insert(c.items, 0, created)
	c.clampPage()
	c.mu.Unlock()

	c.notifier.Notify(ctx, notify.Success("URL created successfully"))

	return created, nil
}

// Update edits the link with the given resource identifier and replaces it in place.
func (c *Controller) Update(ctx context.Context, id string, in Input) (shortener.ShortURL, error) {
	in, err := c.checkInput(in)
	if err != nil {
		c.notifyFailure(ctx, "Invalid form", err)

		return shortener.ShortURL{}, err
	}

	current, ok := c.find(id)
	if !ok {
		err := fmt.Errorf("%w: %s", shortener.ErrNotFound, id)
		c.notifyFailure(ctx, "Failed to update URL", err)

		return shortener.ShortURL{}, err
	}

	updated, err := c.service.Update(ctx, current.Code, in.LongURL, in.Name, in.Expiry)
	if err != nil {
		c.notifyFailure(ctx, "Failed to update URL", err)

		return shortener.ShortURL{}, err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = updated
		}
	}
	c.clampPage()
	c.mu.Unlock()

	c.notifier.Notify(ctx, notify.Success("URL updated successfully"))

	return updated, nil
}

// Delete asks for confirmation, removes every link with code optimistically and
// restores them at their original positions if the server rejects the deletion.
// It reports whether the deletion was confirmed and succeeded.
func (c *Controller) Delete(ctx context.Context, code shortener.Code) (bool, error) {
	ok, err := c.confirmer.Confirm(ctx, c.deletePrompt(code))
	if err != nil {
		c.notifyFailure(ctx, "Failed to delete URL", err)

		return false, err
	}

	if !ok {
		return false, nil
	}

	removed := c.removeCode(code)

	if err := c.service.Delete(ctx, code); err != nil {
		c.restore(removed)
		c.notifyFailure(ctx, "Failed to delete URL", err)

		return false, err
	}

	c.notifier.Notify(ctx, notify.Success("URL deleted successfully"))

	return true, nil
}

// Export writes the full collection, ignoring the search filter.
func (c *Controller) Export(ctx context.Context, w io.Writer, format export.Format) error {
	items := c.Items()

	if err := export.Write(w, format, items); err != nil {
		c.notifyFailure(ctx, "Export failed", err)

		return err
	}

	c.notifier.Notify(ctx, notify.Info(fmt.Sprintf("Exported %d URLs as %s", len(items), format)))

	return nil
}

// removedItem remembers where a deleted link sat: before the first surviving
// link that followed it (empty when it was last), or at index as a fallback.
type removedItem struct {
	index  int
	before string
	item   shortener.ShortURL
}

func (c *Controller) removeCode(code shortener.Code) []removedItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []removedItem

	kept := make([]shortener.ShortURL, 0, len(c.items))

	for i, item := range c.items {
		if item.Code == code {
			removed = append(removed, removedItem{index: i, item: item})

			continue
		}

		kept = append(kept, item)
	}

	for j := range removed {
		if next, ok := lo.Find(c.items[removed[j].index+1:], func(u shortener.ShortURL) bool {
			return u.Code != code
		}); ok {
			removed[j].before = next.ID
		}
	}

	c.items = kept
	c.clampPage()

	return removed
}

// restore reinserts removed links next to their former successors, so links
// created while the deletion was in flight do not shift them.
func (c *Controller) restore(removed []removedItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range removed {
		at := min(r.index, len(c.items))

		if r.before == "" {
			at = len(c.items)
		} else if i := slices.IndexFunc(c.items, func(u shortener.ShortURL) bool { return u.ID == r.before }); i >= 0 {
			at = i
		}

		c.items = slices.Insert(c.items, at, r.item)
	}

	c.clampPage()
}

func (c *Controller) deletePrompt(code shortener.Code) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := lo.Find(c.items, func(u shortener.ShortURL) bool { return u.Code == code }); ok && item.Name != "" {
		return fmt.Sprintf("Delete %q (%s)?", item.Name, code)
	}

	return fmt.Sprintf("Delete %s?", code)
}

func (c *Controller) checkInput(in Input) (Input, error) {
	in.LongURL = strings.TrimSpace(in.LongURL)
	in.Name = strings.TrimSpace(in.Name)

	if err := c.validate.Struct(in); err != nil {
		return in, fmt.Errorf("%w: %w", shortener.ErrValidation, err)
	}

	if at, ok := in.Expiry.Time(); ok && at.Before(c.now()) {
		return in, fmt.Errorf("%w: expiration %s is in the past", shortener.ErrValidation, at.Format(time.RFC3339))
	}

	return in, nil
}

func (c *Controller) find(id string) (shortener.ShortURL, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.Find(c.items, func(u shortener.ShortURL) bool { return u.ID == id })
}

func (c *Controller) notifyFailure(ctx context.Context, message string, err error) {
	c.logger.Warn(message, zap.Error(err))
	c.notifier.Notify(ctx, notify.Error(fmt.Sprintf("%s: %v", message, err)))
}
