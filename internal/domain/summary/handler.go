package summary

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/providers", h.ListProviders)
	e.GET("/providers/:name", h.GetProvider)
	e.POST("/refresh", h.Refresh)
}

func (h *Handler) ListProviders(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []*ProviderSummary{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetProvider(c echo.Context) error {
	name := c.Param("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	s, err := h.svc.Get(c.Request().Context(), name)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "provider not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Refresh(c echo.Context) error {
	n, err := h.svc.Refresh(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"providers": n})
}
