// Package handler exposes the HTTP handlers of the geo-ads backend.  This
// file covers the advertisement endpoints: listing the registered
// advertisements, scoping them by zone, and registering new ones.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/geo-ads-backend/internal/model"
	"github.com/iliyamo/geo-ads-backend/internal/repository"
)

// AdvertisementStore is the slice of the advertisement repository the
// handlers depend on.  *repository.AdvertisementRepo satisfies it; tests
// substitute an in-memory implementation.
type AdvertisementStore interface {
	ListAll(ctx context.Context) ([]*model.Advertisement, error)
	ListByZone(ctx context.Context, zoneID string) ([]*model.Advertisement, error)
	GetByID(ctx context.Context, id uint64) (*model.Advertisement, error)
	Create(ctx context.Context, ad *model.Advertisement) error
}

// AdvertisementHandler serves the advertisement endpoints backed by the
// relational store.
type AdvertisementHandler struct {
	Repo AdvertisementStore // provides access to advertisement rows
}

// AdvertisementResponse is the wire form of an advertisement.
type AdvertisementResponse struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url,omitempty"`
	Zone     string  `json:"zone"`
}

// createAdvertisementRequest is the body accepted by Create.
type createAdvertisementRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
	Zone     string  `json:"zone"`
}

func toAdvertisementResponse(ad *model.Advertisement) AdvertisementResponse {
	return AdvertisementResponse{ID: ad.ID, Name: ad.Name, ImageURL: ad.ImageURL, Zone: ad.Zone}
}

// List returns every registered advertisement.
func (h *AdvertisementHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ads, err := h.Repo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, toAdvertisementResponse(ad))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListByZone returns the advertisements registered for one zone.
func (h *AdvertisementHandler) ListByZone(c echo.Context) error {
	ctx := c.Request().Context()
	ads, err := h.Repo.ListByZone(ctx, c.Param("zone_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		out = append(out, toAdvertisementResponse(ad))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create registers a new advertisement.  Name and zone are required.
func (h *AdvertisementHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var req createAdvertisementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if req.Name == "" || req.Zone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and zone are required"})
	}

	ad := &model.Advertisement{Name: req.Name, ImageURL: req.ImageURL, Zone: req.Zone}
	if err := h.Repo.Create(ctx, ad); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toAdvertisementResponse(ad))
}

// getAdByIDParam parses the :ad_id path parameter and resolves the
// advertisement, mapping the repository sentinel onto a 404 response.  When
// the second return value is false the error response has already been
// written and the caller should return nil.
func getAdByIDParam(c echo.Context, store AdvertisementStore) (*model.Advertisement, bool) {
	id, err := strconv.ParseUint(c.Param("ad_id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advertisement id"})
		return nil, false
	}
	ad, err := store.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAdvertisementNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "advertisement not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil, false
	}
	return ad, true
}
