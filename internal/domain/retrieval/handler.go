package retrieval

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/pkg/pagination"
)

// Handler exposes the code catalog and the suggestion engine over HTTP.
type Handler struct {
	engine *Engine
	repo   CodeRepository
}

// NewHandler creates the HTTP handler.
func NewHandler(engine *Engine, repo CodeRepository) *Handler {
	return &Handler{engine: engine, repo: repo}
}

// Register mounts the routes on the given group.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/codes/suggest", h.Suggest)
	g.GET("/codes/search", h.Search)
	g.GET("/codes/:code", h.GetByCode)
}

// Suggest runs the full five-strategy retrieval for a free-text query.
func (h *Handler) Suggest(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}
	category := classification.Category(c.QueryParam("category"))

	candidates, err := h.engine.Suggest(c.Request().Context(), query, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "code retrieval failed"})
	}
	if candidates == nil {
		candidates = []CodeCandidate{}
	}
	return c.JSON(http.StatusOK, map[string]any{"candidates": candidates})
}

// Search is a plain catalog substring search with pagination.
func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}
	p := pagination.FromContext(c)

	codes, err := h.repo.Search(c.Request().Context(), query, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "catalog search failed"})
	}
	page := pagination.Page(codes, p)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(codes), p.Limit, p.Offset))
}

// GetByCode returns one catalog entry.
func (h *Handler) GetByCode(c echo.Context) error {
	code, err := h.repo.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "catalog lookup failed"})
	}
	if code == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "code not found"})
	}
	return c.JSON(http.StatusOK, code)
}
