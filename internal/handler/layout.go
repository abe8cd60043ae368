package handler

// This file defines handlers over the venue layout and its spatial index:
// the full zone list, per-zone screens, exact grid lookups, proximity
// queries and the derived multi-index keys.  The index is built once at
// startup and is read-only, so none of these handlers need synchronization.

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/geo-ads-backend/internal/layout"
)

// LayoutHandler serves layout and spatial index queries.
type LayoutHandler struct {
	Registry *layout.Registry     // produces the static zone list
	Index    *layout.SpatialIndex // answers membership and proximity queries
}

// GetLayout returns the full ordered zone list.
func (h *LayoutHandler) GetLayout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Registry.GetLayout())
}

// GetScreensByZone returns all screens of a zone in construction order.  An
// unknown zone yields an empty list, not an error.
func (h *LayoutHandler) GetScreensByZone(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Index.QueryByZone(c.Param("zone_id")))
}

// GetScreenByGrid returns the screen at an exact (zone, row, col) cell, or
// 404 when the cell is empty or out of range.
func (h *LayoutHandler) GetScreenByGrid(c echo.Context) error {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row"})
	}
	col, err := strconv.Atoi(c.Param("col"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid col"})
	}
	screen, ok := h.Index.QueryByGrid(c.Param("zone_id"), row, col)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
	}
	return c.JSON(http.StatusOK, screen)
}

// QueryNear returns every screen within `radius` grid units of the target
// point, optionally restricted to one zone.  x and y are required; radius
// defaults to 1.5 grid units.
func (h *LayoutHandler) QueryNear(c echo.Context) error {
	x, ok := floatQuery(c, "x")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing or invalid x"})
	}
	y, ok := floatQuery(c, "y")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing or invalid y"})
	}
	radius, ok := floatQueryDefault(c, "radius", 1.5)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid radius"})
	}
	return c.JSON(http.StatusOK, h.Index.QueryNear(x, y, radius, optQuery(c, "zone_id")))
}

// GetMultiIndexKeys returns one multi-index key per screen, each carrying
// the caller-supplied logical dimensions unchanged.
func (h *LayoutHandler) GetMultiIndexKeys(c echo.Context) error {
	keys := h.Index.BuildKeys(optQuery(c, "ad_category"), optQuery(c, "time_window"))
	return c.JSON(http.StatusOK, keys)
}
