// Package apitest is an in-memory implementation of the short URL API.
// It backs the contract tests of the client packages and the local stub server.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/serroba/shorturl-console/internal/shortener"
	"go.uber.org/zap"
)

const maxCodeAttempts = 5

// Config configures the stub API.
type Config struct {
	// ShortBaseURL prefixes generated short links, e.g. http://localhost:8888.
	ShortBaseURL string
	CodeLength   int
}

// Server serves the short URL API from memory.
type Server struct {
	store     *memoryStore
	shortBase string
	newCode   func() string
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a stub API server.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	length := cfg.CodeLength
	if length <= 0 {
		length = 8
	}

	codeGenerator, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return &Server{
		store:     newMemoryStore(),
		shortBase: strings.TrimSuffix(cfg.ShortBaseURL, "/"),
		newCode:   codeGenerator,
		now:       time.Now,
		logger:    logger,
	}, nil
}

// Handler builds a chi router with every route registered.
func (s *Server) Handler() http.Handler {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Short URL API", "1.0.0"))

	api.UseMiddleware(WithRequestMeta(api))
	s.Register(api)

	return router
}

// Register registers the short URL routes on api.
func (s *Server) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-urls",
		Method:      http.MethodGet,
		Path:        "/user/urls",
		Summary:     "List the visitor's short URLs",
		Tags:        []string{"URLs"},
	}, s.ListURLs)

	huma.Register(api, huma.Operation{
		OperationID:   "create-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, s.CreateURL)

	huma.Register(api, huma.Operation{
		OperationID: "update-url",
		Method:      http.MethodPut,
		Path:        "/user/urls/{code}",
		Summary:     "Update short URL",
		Tags:        []string{"URLs"},
	}, s.UpdateURL)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-url",
		Method:        http.MethodDelete,
		Path:          "/user/urls/{code}",
		Summary:       "Delete short URL",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusNoContent,
	}, s.DeleteURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/logs/{id}",
		Summary:     "Visitor log of a short URL",
		Tags:        []string{"Logs"},
	}, s.ListLogs)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"URLs"},
	}, s.Redirect)
}

func (s *Server) ListURLs(_ context.Context, req *listURLsRequest) (*listURLsResponse, error) {
	records := s.store.list(req.Fingerprint)

	resp := &listURLsResponse{}
	resp.Body.Code = http.StatusOK
	resp.Body.Success = true
	resp.Body.Message = "urls retrieved"

	resp.Body.Data = make([]urlBody, 0, len(records))
	for _, r := range records {
		resp.Body.Data = append(resp.Body.Data, s.toBody(r))
	}

	return resp, nil
}

func (s *Server) CreateURL(_ context.Context, req *writeURLRequest) (*urlResponse, error) {
	in, expiresAt, err := s.decodeInput(req.RawBody)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueCode()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to generate code")
	}

	created := s.store.insert(record{
		id:        uuid.NewString(),
		code:      code,
		name:      in.Name,
		longURL:   in.LongURL,
		createdAt: s.now().UTC(),
		expiresAt: expiresAt.at,
		owner:     req.Fingerprint,
		ownerID:   s.store.userID(req.Fingerprint),
		ownerName: "anonymous",
	})

	s.logger.Info("short url created", zap.String("code", code))

	return s.urlResponse(http.StatusCreated, "url created", created), nil
}

func (s *Server) UpdateURL(_ context.Context, req *updateURLRequest) (*urlResponse, error) {
	in, expiresAt, err := s.decodeInput(req.RawBody)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.update(req.Fingerprint, req.Code, func(r *record) {
		r.longURL = in.LongURL
		r.name = in.Name

		if expiresAt.present {
			r.expiresAt = expiresAt.at
		}
	})
	if err != nil {
		return nil, huma.Error404NotFound("url not found")
	}

	return s.urlResponse(http.StatusOK, "url updated", updated), nil
}

func (s *Server) DeleteURL(_ context.Context, req *deleteURLRequest) (*struct{}, error) {
	if err := s.store.remove(req.Fingerprint, req.Code); err != nil {
		return nil, huma.Error404NotFound("url not found")
	}

	return &struct{}{}, nil
}

func (s *Server) ListLogs(_ context.Context, req *logsRequest) (*logsResponse, error) {
	if _, ok := s.store.findByID(req.Fingerprint, req.ID); !ok {
		return nil, huma.Error404NotFound("url not found")
	}

	visits, total := s.store.visitPage(req.ID, req.Page, req.Limit)

	resp := &logsResponse{}
	resp.Body.Code = http.StatusOK
	resp.Body.Success = true
	resp.Body.Message = "logs retrieved"
	resp.Body.Pagination = paginationBody{
		Total:      total,
		Limit:      req.Limit,
		Page:       req.Page,
		TotalPages: shortener.TotalPages(total, req.Limit),
	}

	resp.Body.Data = make([]visitorBody, 0, len(visits))
	for _, v := range visits {
		resp.Body.Data = append(resp.Body.Data, visitorBody{
			Status:    v.Accepted,
			VisitorIP: v.IP,
			CreatedAt: v.At,
			Browser:   v.UserAgent,
		})
	}

	return resp, nil
}

func (s *Server) Redirect(ctx context.Context, req *redirectRequest) (*redirectResponse, error) {
	meta := RequestMetaFromContext(ctx)
	now := s.now().UTC()

	current, ok := s.lookup(req.Code)
	if !ok {
		return nil, huma.Error404NotFound("short url not found")
	}

	accepted := current.expiresAt == nil || !now.After(*current.expiresAt)

	r, err := s.store.visit(req.Code, Visit{
		Accepted:  accepted,
		IP:        meta.ClientIP,
		UserAgent: meta.UserAgent,
		At:        now,
	})
	if err != nil {
		return nil, huma.Error404NotFound("short url not found")
	}

	if !accepted {
		return nil, huma.Error410Gone("short url expired")
	}

	return &redirectResponse{Status: http.StatusFound, Location: r.longURL}, nil
}

// RecordVisit appends a visit to the link with the given code.
func (s *Server) RecordVisit(code string, v Visit) error {
	_, err := s.store.visit(code, v)

	return err
}

func (s *Server) lookup(code string) (record, bool) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, ok := s.store.byCode[code]
	if !ok {
		return record{}, false
	}

	return *r, true
}

func (s *Server) uniqueCode() (string, error) {
	for range maxCodeAttempts {
		code := s.newCode()
		if !s.store.codeTaken(code) {
			return code, nil
		}
	}

	return "", errors.New("code space exhausted")
}

type expiryField struct {
	present bool
	at      *time.Time
}

func (s *Server) decodeInput(raw []byte) (urlInput, expiryField, error) {
	var in urlInput

	if err := json.Unmarshal(raw, &in); err != nil {
		return in, expiryField{}, huma.Error400BadRequest("malformed body")
	}

	if strings.TrimSpace(in.Name) == "" {
		return in, expiryField{}, huma.Error422UnprocessableEntity("name is required")
	}

	target, err := url.Parse(in.LongURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return in, expiryField{}, huma.Error422UnprocessableEntity("longUrl must be an absolute http(s) URL")
	}

	if len(in.ExpiresAt) == 0 {
		return in, expiryField{}, nil
	}

	if bytes.Equal(in.ExpiresAt, []byte("null")) {
		return in, expiryField{present: true}, nil
	}

	var at time.Time
	if err := json.Unmarshal(in.ExpiresAt, &at); err != nil {
		return in, expiryField{}, huma.Error422UnprocessableEntity("expiresAt must be an RFC 3339 timestamp")
	}

	if at.Before(s.now()) {
		return in, expiryField{}, huma.Error422UnprocessableEntity("expiresAt must be in the future")
	}

	at = at.UTC()

	return in, expiryField{present: true, at: &at}, nil
}

func (s *Server) urlResponse(code int, message string, r record) *urlResponse {
	resp := &urlResponse{}
	resp.Body.Code = code
	resp.Body.Success = true
	resp.Body.Message = message
	resp.Body.Data = s.toBody(r)

	return resp
}

func (s *Server) toBody(r record) urlBody {
	return urlBody{
		ID:        r.id,
		LongURL:   r.longURL,
		ShortID:   r.code,
		Clicks:    r.clicks,
		Name:      r.name,
		User:      userBody{ID: r.ownerID, Name: r.ownerName},
		CreatedAt: r.createdAt,
		ShortURL:  s.shortBase + "/" + r.code,
		ExpiresAt: r.expiresAt,
	}
}
