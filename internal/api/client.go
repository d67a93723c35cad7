// Package api is the HTTP transport shared by the URL and visitor log services.
// It attaches the visitor fingerprint to every request, maps HTTP failures onto the
// shortener error taxonomy and validates response envelopes before handing them back.
package api

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/serroba/shorturl-console/internal/ratelimit"
	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
)

// FingerprintHeader carries the visitor token; it is the only attribution mechanism.
const FingerprintHeader = "X-Fingerprint"

const maxResponseBytes = 4 << 20

// Config configures the transport.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TokenSource provides the visitor token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Throttle decides whether an outgoing request may be sent.
type Throttle interface {
	Allow(ctx context.Context, clientKey string, scopes []ratelimit.Scope) (bool, *ratelimit.LimitExceeded, error)
}

// Request describes one call against the remote API.
type Request struct {
	Method string
	Path   string // relative to the base URL, already escaped
	Query  url.Values
	Body   any
}

// Client performs attributed JSON requests against the remote API.
type Client struct {
	httpClient *http.Client
	base       *url.URL
	tokens     TokenSource
	throttle   Throttle
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewClient creates a transport for the API at cfg.BaseURL. throttle may be nil.
func NewClient(cfg Config, tokens TokenSource, throttle Throttle, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		base:       base,
		tokens:     tokens,
		throttle:   throttle,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}, nil
}

// BaseURL returns the normalised API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Path joins escaped path segments into a relative request path.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	return strings.Join(escaped, "/")
}

// Do sends req and decodes a 2xx JSON body into out when out is non-nil.
// The decoded value is validated against its `validate` tags.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	err := c.do(ctx, req, out)
	if err != nil {
		c.logger.Error("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
	}

	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	if err := c.checkThrottle(ctx, token, req.Method); err != nil {
		return err
	}

	httpReq, err := c.newRequest(ctx, req, token)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", shortener.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", shortener.ErrNetwork, err)
	}

	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", shortener.ErrNetwork, err)
	}

	return nil
}

func (c *Client) checkThrottle(ctx context.Context, key, method string) error {
	if c.throttle == nil {
		return nil
	}

	allowed, exceeded, err := c.throttle.Allow(ctx, key, ratelimit.ScopesForMethod(method))
	if err != nil {
		return fmt.Errorf("%w: throttle: %w", shortener.ErrNetwork, err)
	}

	if !allowed {
		if exceeded != nil {
			return fmt.Errorf("%w: %w: %w", shortener.ErrNetwork, shortener.ErrThrottled, exceeded)
		}

		return fmt.Errorf("%w: %w", shortener.ErrNetwork, shortener.ErrThrottled)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request, token string) (*http.Request, error) {
	ref, err := url.Parse(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: bad path %q: %w", shortener.ErrValidation, req.Path, err)
	}

	if len(req.Query) > 0 {
		ref.RawQuery = req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %w", shortener.ErrValidation, err)
		}

		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shortener.ErrNetwork, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(FingerprintHeader, token)

	return httpReq, nil
}

type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func statusError(status int, body []byte) error {
	kind := shortener.ErrNetwork

	switch status {
	case http.StatusNotFound:
		kind = shortener.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = shortener.ErrValidation
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := cmp.Or(eb.Message, eb.Detail); msg != "" {
			return fmt.Errorf("%w: status %d: %s", kind, status, msg)
		}
	}

	return fmt.Errorf("%w: status %d", kind, status)
}

// IsThrottled reports whether err came from the client-side throttle.
func IsThrottled(err error) bool {
	return errors.Is(err, shortener.ErrThrottled)
}
