package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func runRequest(t *testing.T, mw echo.MiddlewareFunc, h echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(h)(c)
	return rec, err
}

func TestRequestID_GeneratesNew(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var seen string
	rec, err := runRequest(t, RequestID(), func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return c.NoContent(http.StatusOK)
	}, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if seen == "" {
		t.Error("request_id not set in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Error("response header does not match context request_id")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec, err := runRequest(t, RequestID(), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("existing request ID not preserved: %s", rec.Header().Get("X-Request-ID"))
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := runRequest(t, Recovery(logger), func(c echo.Context) error {
		panic("boom")
	}, req)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3})
	e := echo.New()
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d error: %v", i, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	// Burst exhausted.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("over-limit request error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := runRequest(t, Logger(logger), func(c echo.Context) error {
		return c.String(http.StatusTeapot, "ok")
	}, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("logger middleware altered response: %d", rec.Code)
	}
}

func TestLogger_OmitsQueryString(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes/suggest?q=Mikrokalk+im+oberen+Quadranten", nil)
	_, err := runRequest(t, Logger(logger), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	line := buf.String()
	if !strings.Contains(line, "/api/v1/codes/suggest") {
		t.Errorf("path missing from log line: %s", line)
	}
	if strings.Contains(line, "Mikrokalk") {
		t.Errorf("query text must not reach the log sink: %s", line)
	}
}
