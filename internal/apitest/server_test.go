package apitest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorturl-console/internal/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, method, target, fingerprint, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, target, strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	if fingerprint != "" {
		req.Header.Set("X-Fingerprint", fingerprint)
	}

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(b)
}

func TestServer_URLLifecycle(t *testing.T) {
	_, ts := apitest.Start(t)

	t.Run("list is empty for a new visitor", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, ts.URL+"/user/urls", "fp-new", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"data":[]`)
	})

	t.Run("missing fingerprint is rejected", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/user/urls", "", "")

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("create rejects invalid url", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, ts.URL+"/shorten", "fp-1", `{"longUrl":"nope","name":"x"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "longUrl")
	})

	t.Run("create rejects past expiration", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/shorten", "fp-1",
			`{"longUrl":"https://x.com","name":"x","expiresAt":"2000-01-01T00:00:00Z"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("links are scoped to the fingerprint", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/shorten", "fp-1", `{"longUrl":"https://x.com","name":"x"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		_, mine := do(t, http.MethodGet, ts.URL+"/user/urls", "fp-1", "")
		_, theirs := do(t, http.MethodGet, ts.URL+"/user/urls", "fp-2", "")

		assert.Contains(t, mine, `"longUrl":"https://x.com"`)
		assert.Contains(t, theirs, `"data":[]`)
	})

	t.Run("owner id is stable and never the fingerprint", func(t *testing.T) {
		ownerOf := func(fingerprint string) string {
			resp, body := do(t, http.MethodPost, ts.URL+"/shorten", fingerprint, `{"longUrl":"https://y.com","name":"y"}`)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var created struct {
				Data struct {
					User struct {
						ID string `json:"_id"`
					} `json:"user"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &created))

			return created.Data.User.ID
		}

		first := ownerOf("fp-owner")

		assert.NotEmpty(t, first)
		assert.NotContains(t, first, "fp-owner")
		assert.Equal(t, first, ownerOf("fp-owner"))
		assert.NotEqual(t, first, ownerOf("fp-other"))
	})

	t.Run("delete of unknown code is not found", func(t *testing.T) {
		resp, _ := do(t, http.MethodDelete, ts.URL+"/user/urls/missing", "fp-1", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Redirect(t *testing.T) {
	srv, ts := apitest.Start(t)

	created, err := srv.CreateURL(context.Background(), newWrite("fp-1", `{"longUrl":"https://example.com/a","name":"a"}`))
	require.NoError(t, err)

	code := created.Body.Data.ShortID

	t.Run("redirects and counts the visit", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/"+code, "", "")

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/a", resp.Header.Get("Location"))

		_, body := do(t, http.MethodGet, ts.URL+"/user/urls", "fp-1", "")
		assert.Contains(t, body, `"clicks":1`)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, ts.URL+"/nosuchcode", "", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_UpdateExpiry(t *testing.T) {
	srv, _ := apitest.Start(t)
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	created, err := srv.CreateURL(ctx, newWrite("fp-1",
		`{"longUrl":"https://x.com","name":"x","expiresAt":"`+future+`"}`))
	require.NoError(t, err)
	require.NotNil(t, created.Body.Data.ExpiresAt)

	code := created.Body.Data.ShortID

	t.Run("omitted expiresAt keeps the value", func(t *testing.T) {
		resp, err := srv.UpdateURL(ctx, newUpdate("fp-1", code, `{"longUrl":"https://y.com","name":"y"}`))

		require.NoError(t, err)
		assert.Equal(t, "https://y.com", resp.Body.Data.LongURL)
		assert.NotNil(t, resp.Body.Data.ExpiresAt)
	})

	t.Run("null expiresAt clears the value", func(t *testing.T) {
		resp, err := srv.UpdateURL(ctx, newUpdate("fp-1", code, `{"longUrl":"https://y.com","name":"y","expiresAt":null}`))

		require.NoError(t, err)
		assert.Nil(t, resp.Body.Data.ExpiresAt)
	})

	t.Run("another visitor cannot update", func(t *testing.T) {
		_, err := srv.UpdateURL(ctx, newUpdate("fp-2", code, `{"longUrl":"https://y.com","name":"y"}`))

		var se huma.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.GetStatus())
	})
}

func TestServer_ListLogs(t *testing.T) {
	srv, _ := apitest.Start(t)
	ctx := context.Background()

	created, err := srv.CreateURL(ctx, newWrite("fp-1", `{"longUrl":"https://x.com","name":"x"}`))
	require.NoError(t, err)

	for i := range 15 {
		require.NoError(t, srv.RecordVisit(created.Body.Data.ShortID, apitest.Visit{
			Accepted:  true,
			IP:        "10.0.0.1",
			UserAgent: "agent",
			At:        time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
		}))
	}

	t.Run("second page holds the remainder", func(t *testing.T) {
		resp, err := srv.ListLogs(ctx, newLogs("fp-1", created.Body.Data.ID, 2, 10))

		require.NoError(t, err)
		assert.Len(t, resp.Body.Data, 5)
		assert.Equal(t, 15, resp.Body.Pagination.Total)
		assert.Equal(t, 2, resp.Body.Pagination.TotalPages)
	})

	t.Run("newest visits come first", func(t *testing.T) {
		resp, err := srv.ListLogs(ctx, newLogs("fp-1", created.Body.Data.ID, 1, 10))

		require.NoError(t, err)
		assert.Equal(t, 14, resp.Body.Data[0].CreatedAt.Minute())
	})

	t.Run("page beyond the last is empty", func(t *testing.T) {
		resp, err := srv.ListLogs(ctx, newLogs("fp-1", created.Body.Data.ID, 3, 10))

		require.NoError(t, err)
		assert.Empty(t, resp.Body.Data)
		assert.Equal(t, 2, resp.Body.Pagination.TotalPages)
	})

	t.Run("foreign url is not found", func(t *testing.T) {
		_, err := srv.ListLogs(ctx, newLogs("fp-2", created.Body.Data.ID, 1, 10))

		assert.Error(t, err)
	})
}

var (
	newWrite  = apitest.NewWriteRequest
	newUpdate = apitest.NewUpdateRequest
	newLogs   = apitest.NewLogsRequest
)
