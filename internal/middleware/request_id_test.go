package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serveWithRequestID(t *testing.T, incoming string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRequestIDGenerated(t *testing.T) {
	resp := serveWithRequestID(t, "")

	id := resp.Header().Get(RequestIDHeader)
	if len(id) != 32 {
		t.Fatalf("expected 32-char hex id, got %q", id)
	}
	if resp.Body.String() != id {
		t.Fatalf("expected handler to see id %q, got %q", id, resp.Body.String())
	}
}

func TestRequestIDPreservesClientValue(t *testing.T) {
	resp := serveWithRequestID(t, "styling-req-7")

	if id := resp.Header().Get(RequestIDHeader); id != "styling-req-7" {
		t.Fatalf("expected client id to round-trip, got %q", id)
	}
	if resp.Body.String() != "styling-req-7" {
		t.Fatalf("expected handler to see client id, got %q", resp.Body.String())
	}
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	first := serveWithRequestID(t, "").Header().Get(RequestIDHeader)
	second := serveWithRequestID(t, "").Header().Get(RequestIDHeader)
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	if id := GetRequestID(nil); id != "" {
		t.Fatalf("expected empty id for nil context, got %q", id)
	}
}
