package generation

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the generation service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the routes on the given group.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/generate", h.Generate)
}

// Generate runs one generation request.
func (h *Handler) Generate(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.service.Generate(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrExhausted):
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "all generation backends failed"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "generation failed"})
		}
	}
	return c.JSON(http.StatusOK, result)
}
