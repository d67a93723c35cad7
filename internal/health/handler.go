// Package health reports the reachability of the remote API and optional Redis.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	Healthy        = "healthy"
	Unhealthy      = "unhealthy"
)

// Checker defines the interface for checking a dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// APIChecker probes the remote API base URL. Any response below 500 counts as reachable.
type APIChecker struct {
	client *http.Client
	url    string
}

// NewAPIChecker creates a checker for the API at url.
func NewAPIChecker(client *http.Client, url string) *APIChecker {
	return &APIChecker{client: client, url: url}
}

// Ping sends a HEAD request to the API base URL.
func (a *APIChecker) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.url, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("api responded %d", resp.StatusCode)
	}

	return nil
}

// Component is the outcome of one checker.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates the outcome of every checker.
type Report struct {
	Status     string      `json:"status"`
	Components []Component `json:"components"`
}

// Check pings every checker concurrently. The report is degraded if any check fails.
func Check(ctx context.Context, checkers map[string]Checker) Report {
	var (
		mu     sync.Mutex
		report = Report{Status: StatusOK, Components: make([]Component, 0, len(checkers))}
	)

	g, ctx := errgroup.WithContext(ctx)

	for name, checker := range checkers {
		g.Go(func() error {
			c := Component{Name: name, Status: Healthy}

			if err := checker.Ping(ctx); err != nil {
				c.Status = Unhealthy
				c.Error = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()

			report.Components = append(report.Components, c)
			if c.Status == Unhealthy {
				report.Status = StatusDegraded
			}

			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(report.Components, func(i, j int) bool {
		return report.Components[i].Name < report.Components[j].Name
	})

	return report
}

// Handler serves the aggregated health report.
type Handler struct {
	checkers map[string]Checker
}

// NewHandler creates a new health handler.
func NewHandler(checkers map[string]Checker) *Handler {
	return &Handler{checkers: checkers}
}

// Response is the response for health check endpoint.
type Response struct {
	Body Report
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	return &Response{Body: Check(ctx, h.checkers)}, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
