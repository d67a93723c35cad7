package apitest

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// Start serves a fresh stub API for the duration of the test.
func Start(t testing.TB) (*Server, *httptest.Server) {
	t.Helper()

	srv, err := New(Config{ShortBaseURL: "http://sho.rt"}, zap.NewNop())
	if err != nil {
		t.Fatalf("create stub api: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, ts
}
