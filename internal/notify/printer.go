package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Printer renders notifications as single lines on a writer.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Handle renders n. It satisfies messaging.Handler[Notification].
func (p *Printer) Handle(_ context.Context, n *Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := fmt.Fprintf(p.w, "%s [%s] %s\n", n.Time.Format(time.TimeOnly), strings.ToUpper(string(n.Level)), n.Message)

	return err
}
