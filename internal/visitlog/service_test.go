package visitlog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/shorturl-console/internal/api"
	"github.com/serroba/shorturl-console/internal/apitest"
	"github.com/serroba/shorturl-console/internal/identity"
	"github.com/serroba/shorturl-console/internal/shortener"
	"github.com/serroba/shorturl-console/internal/urls"
	"github.com/serroba/shorturl-console/internal/visitlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()

	tokens := identity.NewCache(identity.StaticFingerprinter("fp-1"), zap.NewNop())

	client, err := api.NewClient(api.Config{BaseURL: baseURL, Timeout: 2 * time.Second}, tokens, nil, zap.NewNop())
	require.NoError(t, err)

	return client
}

// seed creates one link with the given number of visits and returns its resource id.
func seed(t *testing.T, srv *apitest.Server, client *api.Client, visits int) string {
	t.Helper()

	created, err := urls.NewService(client, zap.NewNop()).Create(context.Background(), "https://x.com", "x", nil)
	require.NoError(t, err)

	for i := range visits {
		require.NoError(t, srv.RecordVisit(string(created.Code), apitest.Visit{
			Accepted:  i%2 == 0,
			IP:        "10.0.0.1",
			UserAgent: "Mozilla/5.0",
			At:        time.Date(2025, 3, 1, 12, i, 0, 0, time.UTC),
		}))
	}

	return created.ID
}

func TestService_FetchPage(t *testing.T) {
	srv, ts := apitest.Start(t)
	client := newClient(t, ts.URL)
	svc := visitlog.NewService(client, zap.NewNop())
	ctx := context.Background()

	id := seed(t, srv, client, 15)

	t.Run("page 2 of 15 with limit 10", func(t *testing.T) {
		page, err := svc.FetchPage(ctx, id, 2, 10)

		require.NoError(t, err)
		assert.Len(t, page.Entries, 5)
		assert.Equal(t, shortener.Pagination{Total: 15, Limit: 10, Page: 2, TotalPages: 2}, page.Pagination)
	})

	t.Run("maps entry fields", func(t *testing.T) {
		page, err := svc.FetchPage(ctx, id, 1, 10)

		require.NoError(t, err)
		require.NotEmpty(t, page.Entries)

		first := page.Entries[0]
		assert.True(t, first.Accepted)
		assert.Equal(t, "10.0.0.1", first.VisitorIP)
		assert.Equal(t, "Mozilla/5.0", first.UserAgent)
		assert.Equal(t, 14, first.AccessedAt.Minute())
	})

	t.Run("page beyond the last is empty, not an error", func(t *testing.T) {
		page, err := svc.FetchPage(ctx, id, 5, 10)

		require.NoError(t, err)
		assert.NotNil(t, page.Entries)
		assert.Empty(t, page.Entries)
		assert.Equal(t, 2, page.Pagination.TotalPages)
	})

	t.Run("zero page size uses default", func(t *testing.T) {
		page, err := svc.FetchPage(ctx, id, 1, 0)

		require.NoError(t, err)
		assert.Equal(t, visitlog.DefaultPageSize, page.Pagination.Limit)
	})

	t.Run("link without visits reports zero total", func(t *testing.T) {
		empty := seed(t, srv, client, 0)

		page, err := svc.FetchPage(ctx, empty, 1, 10)

		require.NoError(t, err)
		assert.Empty(t, page.Entries)
		assert.Equal(t, 0, page.Pagination.Total)
		assert.Equal(t, 0, page.Pagination.TotalPages)
	})

	t.Run("unknown url is not found", func(t *testing.T) {
		_, err := svc.FetchPage(ctx, "missing", 1, 10)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestService_FetchPageValidation(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	svc := visitlog.NewService(newClient(t, srv.URL), zap.NewNop())

	t.Run("page below one is rejected locally", func(t *testing.T) {
		_, err := svc.FetchPage(context.Background(), "id", 0, 10)

		assert.ErrorIs(t, err, shortener.ErrValidation)
	})

	t.Run("empty id is rejected locally", func(t *testing.T) {
		_, err := svc.FetchPage(context.Background(), " ", 1, 10)

		assert.ErrorIs(t, err, shortener.ErrValidation)
	})

	assert.Equal(t, int32(0), hits.Load())
}

func TestService_FetchPageMalformed(t *testing.T) {
	t.Run("missing pagination is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"data":[]}`)
		}))
		defer srv.Close()

		_, err := visitlog.NewService(newClient(t, srv.URL), zap.NewNop()).FetchPage(context.Background(), "id", 1, 10)

		assert.ErrorIs(t, err, shortener.ErrNetwork)
	})

	t.Run("missing data is an empty page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"pagination":{"total":0,"limit":10,"page":1,"totalPages":0}}`)
		}))
		defer srv.Close()

		page, err := visitlog.NewService(newClient(t, srv.URL), zap.NewNop()).FetchPage(context.Background(), "id", 1, 10)

		require.NoError(t, err)
		assert.NotNil(t, page.Entries)
		assert.Empty(t, page.Entries)
	})
}
