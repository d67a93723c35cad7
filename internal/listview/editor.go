package listview

import (
	"context"
	"fmt"

	"github.com/serroba/shorturl-console/internal/shortener"
)

// BeginCreate opens an empty form.
func (c *Controller) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editorOpen = true
	c.editing = nil
}

// BeginEdit opens the form for the link with the given resource identifier.
func (c *Controller) BeginEdit(id string) error {
	item, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", shortener.ErrNotFound, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.editorOpen = true
	c.editing = &item

	return nil
}

// CloseEditor discards the form.
func (c *Controller) CloseEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editorOpen = false
	c.editing = nil
}

// Editing returns the link being edited (nil when creating) and whether a form is open.
func (c *Controller) Editing() (*shortener.ShortURL, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing == nil {
		return nil, c.editorOpen
	}

	item := *c.editing

	return &item, c.editorOpen
}

// Submit creates or updates depending on the open form and closes it on success.
func (c *Controller) Submit(ctx context.Context, in Input) (shortener.ShortURL, error) {
	editing, open := c.Editing()
	if !open {
		return shortener.ShortURL{}, ErrNoEditor
	}

	var (
		saved shortener.ShortURL
		err   error
	)

	if editing == nil {
		saved, err = c.Create(ctx, in)
	} else {
		saved, err = c.Update(ctx, editing.ID, in)
	}

	if err != nil {
		return shortener.ShortURL{}, err
	}

	c.CloseEditor()

	return saved, nil
}
