// Package urls manages the visitor's short URLs through the remote API.
package urls

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/api"
	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
)

// Doer sends a request to the remote API.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// Service lists, creates, updates and deletes short URLs owned by the current visitor.
type Service struct {
	client Doer
	logger *zap.Logger
}

// NewService creates a URL service on top of the given transport.
func NewService(client Doer, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// List returns every short URL attributed to the visitor. The result is never nil.
func (s *Service) List(ctx context.Context) ([]shortener.ShortURL, error) {
	var env listEnvelope

	err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "user/urls"}, &env)
	if err != nil {
		return nil, err
	}

	return lo.Map(env.Data, func(w wireURL, _ int) shortener.ShortURL {
		return w.toDomain()
	}), nil
}

// Create shortens longURL. A nil expiresAt creates a link that never expires.
func (s *Service) Create(ctx context.Context, longURL, name string, expiresAt *time.Time) (shortener.ShortURL, error) {
	body := createRequest{LongURL: longURL, Name: name}
	if expiresAt != nil {
		at := expiresAt.UTC()
		body.ExpiresAt = &at
	}

	var env itemEnvelope

	err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "shorten", Body: body}, &env)
	if err != nil {
		return shortener.ShortURL{}, err
	}

	created := env.Data.toDomain()

	s.logger.Debug("short url created", zap.String("code", string(created.Code)))

	return created, nil
}

// Update replaces the URL, name and optionally the expiration of the link with the given code.
func (s *Service) Update(
	ctx context.Context,
	code shortener.Code,
	longURL, name string,
	expiry shortener.Expiry,
) (shortener.ShortURL, error) {
	var env itemEnvelope

	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   api.Path("user", "urls", string(code)),
		Body:   updateBody(longURL, name, expiry),
	}, &env)
	if err != nil {
		return shortener.ShortURL{}, err
	}

	return env.Data.toDomain(), nil
}

// Delete removes the link with the given code.
func (s *Service) Delete(ctx context.Context, code shortener.Code) error {
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   api.Path("user", "urls", string(code)),
	}, nil)
	if err != nil {
		return err
	}

	s.logger.Debug("short url deleted", zap.String("code", string(code)))

	return nil
}
