package retrieval

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func testServer() *echo.Echo {
	repo := NewMemoryRepo(SeedCatalog())
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	engine := NewEngine(repo, DefaultWeights(), logger)

	e := echo.New()
	NewHandler(engine, repo).Register(e.Group("/api/v1"))
	return e
}

func TestHandler_SuggestRequiresQuery(t *testing.T) {
	e := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes/suggest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", rec.Code)
	}
}

func TestHandler_SuggestReturnsCandidates(t *testing.T) {
	e := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes/suggest?q=Z12.31&category=mammography", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Candidates []CodeCandidate `json:"candidates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Candidates) == 0 || body.Candidates[0].Code != "Z12.31" {
		t.Errorf("unexpected candidates: %+v", body.Candidates)
	}
}

func TestHandler_SearchPaginates(t *testing.T) {
	e := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes/search?q=neubildung&limit=2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data  []Code `json:"data"`
		Total int    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 2 {
		t.Errorf("expected 2 entries per page, got %d", len(body.Data))
	}
	if body.Total <= 2 {
		t.Errorf("expected total beyond the page, got %d", body.Total)
	}
	for _, c := range body.Data {
		if !strings.Contains(strings.ToLower(c.Display), "neubildung") {
			t.Errorf("entry %s does not match the query", c.Code)
		}
	}
}

func TestHandler_GetByCode(t *testing.T) {
	e := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes/M54.5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for known code, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/codes/X99.99", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown code, got %d", rec.Code)
	}
}
