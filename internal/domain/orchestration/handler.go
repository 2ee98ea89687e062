package orchestration

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medessence/medessence/internal/domain/generation"
)

// Handler exposes the report processing pipeline over HTTP.
type Handler struct {
	orch *Orchestrator
}

// NewHandler creates the HTTP handler.
func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// Register mounts the routes on the given group.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/reports/process", h.Process)
	g.POST("/reports/classify", h.Classify)
}

// Process runs the full pipeline: classification, generation dispatch, code
// retrieval and merge.
func (h *Handler) Process(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.orch.Process(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, generation.ErrEmptyInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, generation.ErrExhausted):
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "all generation backends failed"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "report processing failed"})
		}
	}
	return c.JSON(http.StatusOK, result)
}

// Classify returns only the classification for a report text.
func (h *Handler) Classify(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}
	return c.JSON(http.StatusOK, h.orch.Classify(req.Text))
}
