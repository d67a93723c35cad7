// Package visitlog retrieves the paginated visitor log of a short URL.
package visitlog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/api"
	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of entries requested per page.
const DefaultPageSize = 10

// Doer sends a request to the remote API.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) error
}

type wireEntry struct {
	Status    bool      `json:"Status"`
	VisitorIP string    `json:"visitorIP"`
	CreatedAt time.Time `json:"createdAt"`
	Browser   string    `json:"browser"`
}

type wirePagination struct {
	Total      int `json:"total"      validate:"gte=0"`
	Limit      int `json:"limit"      validate:"gte=0"`
	Page       int `json:"page"       validate:"gte=0"`
	TotalPages int `json:"totalPages" validate:"gte=0"`
}

type pageEnvelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       []wireEntry     `json:"data"`
	Pagination *wirePagination `json:"pagination" validate:"required"`
}

// Page is one page of visitor log entries with the server-reported pagination.
type Page struct {
	Entries    []shortener.VisitorLogEntry
	Pagination shortener.Pagination
}

// Service fetches visitor logs.
type Service struct {
	client Doer
	logger *zap.Logger
}

// NewService creates a visitor log service.
func NewService(client Doer, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// FetchPage returns page of the visitor log of the URL with the given resource id.
// A pageSize of zero or less requests DefaultPageSize entries.
func (s *Service) FetchPage(ctx context.Context, urlID string, page, pageSize int) (Page, error) {
	if strings.TrimSpace(urlID) == "" {
		return Page{}, fmt.Errorf("%w: url id is required", shortener.ErrValidation)
	}

	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be at least 1, got %d", shortener.ErrValidation, page)
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var env pageEnvelope

	err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   api.Path("logs", urlID),
		Query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(pageSize)},
		},
	}, &env)
	if err != nil {
		return Page{}, err
	}

	s.logger.Debug("visitor log fetched",
		zap.String("url_id", urlID),
		zap.Int("page", page),
		zap.Int("entries", len(env.Data)),
	)

	return Page{
		Entries: lo.Map(env.Data, func(e wireEntry, _ int) shortener.VisitorLogEntry {
			return shortener.VisitorLogEntry{
				Accepted:   e.Status,
				VisitorIP:  e.VisitorIP,
				AccessedAt: e.CreatedAt,
				UserAgent:  e.Browser,
			}
		}),
		Pagination: shortener.Pagination{
			Total:      env.Pagination.Total,
			Limit:      env.Pagination.Limit,
			Page:       env.Pagination.Page,
			TotalPages: env.Pagination.TotalPages,
		},
	}, nil
}
