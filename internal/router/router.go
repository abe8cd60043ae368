package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/geo-ads-backend/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that need no collaborators on the provided
// Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The health endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAdvertisements registers the advertisement endpoints.  Listing and
// zone-scoped listing are read paths; Create registers a new advertisement.
func RegisterAdvertisements(e *echo.Echo, a *handler.AdvertisementHandler) {
	g := e.Group("/v1/advertisements")
	g.GET("", a.List)
	g.GET("/zone/:zone_id", a.ListByZone)
	g.POST("", a.Create)
}

// RegisterLayout registers the layout and spatial index query endpoints.
// All of them read an index that never changes after startup, which makes
// them ideal candidates for the response cache middleware applied in main.
func RegisterLayout(e *echo.Echo, l *handler.LayoutHandler) {
	g := e.Group("/v1/layout")
	// Full zone list with every screen.
	g.GET("", l.GetLayout)
	// All screens of one zone, in construction order.
	g.GET("/zones/:zone_id/screens", l.GetScreensByZone)
	// Exact lookup of a single grid cell; 404 when the cell is empty.
	g.GET("/zones/:zone_id/screens/:row/:col", l.GetScreenByGrid)
	// Proximity query around a target point.
	g.GET("/query/near", l.QueryNear)
	// Derived multi-index keys, one per screen.
	g.GET("/multiindex", l.GetMultiIndexKeys)
}

// RegisterRecommendations registers the recommendation endpoints: one with
// an explicit zone filter and one scoped by advertisement.
func RegisterRecommendations(e *echo.Echo, r *handler.RecommendationHandler) {
	e.GET("/v1/layout/recommendation/screen", r.RecommendScreen)
	e.GET("/v1/recommendation/advertisements/:ad_id/screen", r.RecommendScreenForAd)
}

// RegisterPlacements registers the ledger views and the recommend-and-assign
// operation, which is the single write path of the placement ledger.
func RegisterPlacements(e *echo.Echo, p *handler.PlacementHandler) {
	e.GET("/v1/placements", p.ListPlacements)
	e.GET("/v1/placements/screen/:screen_id", p.ListPlacementsByScreen)
	e.POST("/v1/placements/recommend_and_assign/advertisements/:ad_id", p.RecommendAndAssign)
}

// RegisterStreams registers the websocket endpoints: the placement event
// stream, the recommendation query stream and the periodic ads refresh.
func RegisterStreams(e *echo.Echo, w *handler.WSHandler) {
	e.GET("/ws/placements", w.Placements)
	e.GET("/ws/recommend", w.Recommend)
	e.GET("/ws/ads", w.Ads)
}
