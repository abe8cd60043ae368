package handler

// Recommendation endpoints.  A query either carries an explicit zone filter
// or is scoped by advertisement, in which case the advertisement's
// registered zone becomes the filter.  "No screen within radius" is an
// expected outcome surfaced as 404, never as a server fault.

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/geo-ads-backend/internal/layout"
	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// defaultRadius is applied when a recommendation query omits the radius.
const defaultRadius = 10.0

// RecommendationHandler serves screen recommendation queries.
type RecommendationHandler struct {
	Index  *layout.SpatialIndex
	AdRepo AdvertisementStore
}

// recommendParams extracts the target point, radius and logical dimensions
// shared by both recommendation endpoints.  On failure the 400 response is
// already written and ok is false.
func recommendParams(c echo.Context) (x, y, radius float64, opts layout.RecommendOptions, ok bool) {
	x, ok = floatQuery(c, "x")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "missing or invalid x"})
		return
	}
	y, ok = floatQuery(c, "y")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "missing or invalid y"})
		return
	}
	radius, ok = floatQueryDefault(c, "radius", defaultRadius)
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid radius"})
		return
	}
	opts = layout.RecommendOptions{
		ScreenType: optQuery(c, "screen_type"),
		AdCategory: optQuery(c, "ad_category"),
		TimeWindow: optQuery(c, "time_window"),
	}
	return x, y, radius, opts, true
}

// respondRecommendation runs the query and renders either the winning key
// with its distance or the NotFound outcome.
func respondRecommendation(c echo.Context, idx *layout.SpatialIndex, x, y, radius float64, opts layout.RecommendOptions) error {
	key, distance, err := idx.Recommend(x, y, radius, opts)
	if err != nil {
		if errors.Is(err, layout.ErrNoScreenAvailable) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no suitable screen found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation failed"})
	}
	return c.JSON(http.StatusOK, model.RecommendationFromKey(key, distance))
}

// RecommendScreen answers a recommendation query with an optional explicit
// zone filter.
func (h *RecommendationHandler) RecommendScreen(c echo.Context) error {
	x, y, radius, opts, ok := recommendParams(c)
	if !ok {
		return nil
	}
	opts.Zone = optQuery(c, "zone_id")
	return respondRecommendation(c, h.Index, x, y, radius, opts)
}

// RecommendScreenForAd answers a recommendation query scoped by an
// advertisement: the advertisement's registered zone becomes the zone
// filter.  An unknown advertisement is a 404.
func (h *RecommendationHandler) RecommendScreenForAd(c echo.Context) error {
	ad, ok := getAdByIDParam(c, h.AdRepo)
	if !ok {
		return nil
	}
	x, y, radius, opts, ok := recommendParams(c)
	if !ok {
		return nil
	}
	opts.Zone = &ad.Zone
	return respondRecommendation(c, h.Index, x, y, radius, opts)
}
