package handler

// Placement endpoints: read-only views over the ledger plus the combined
// recommend-and-assign operation.  An assignment appends to the ledger,
// notifies the broadcast hub, and fires a best-effort queue event; the
// request never fails because of the broker.

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/geo-ads-backend/internal/hub"
	"github.com/iliyamo/geo-ads-backend/internal/layout"
	"github.com/iliyamo/geo-ads-backend/internal/ledger"
	"github.com/iliyamo/geo-ads-backend/internal/model"
	"github.com/iliyamo/geo-ads-backend/internal/queue"
	queue_publisher "github.com/iliyamo/geo-ads-backend/internal/service"
)

// PlacementHandler serves the placement ledger and the assignment flow.
type PlacementHandler struct {
	Index       *layout.SpatialIndex
	AdRepo      AdvertisementStore
	Ledger      *ledger.PlacementLedger
	Hub         *hub.Hub
	RabbitMQURL string // empty falls back to RABBITMQ_URL / local default
}

// ListPlacements returns every placement in insertion order.
func (h *PlacementHandler) ListPlacements(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Ledger.ListAll())
}

// ListPlacementsByScreen returns the placements for one screen, in
// insertion order.
func (h *PlacementHandler) ListPlacementsByScreen(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Ledger.ListByScreen(c.Param("screen_id")))
}

// RecommendAndAssign resolves the advertisement, recommends the best screen
// near the target point inside the advertisement's zone, records the
// assignment and broadcasts it.  The new placement is returned to the
// caller.
func (h *PlacementHandler) RecommendAndAssign(c echo.Context) error {
	ad, ok := getAdByIDParam(c, h.AdRepo)
	if !ok {
		return nil
	}
	x, y, radius, opts, ok := recommendParams(c)
	if !ok {
		return nil
	}
	opts.Zone = &ad.Zone

	key, _, err := h.Index.Recommend(x, y, radius, opts)
	if err != nil {
		if errors.Is(err, layout.ErrNoScreenAvailable) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no suitable screen found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation failed"})
	}

	// Append and broadcast are one critical section inside the hub, so a
	// subscriber connecting at the same moment sees this placement exactly
	// once: in its snapshot or as an event.
	placement := h.Hub.AssignAndPublish(ad.ID, key)

	// Queue event is best effort; the assignment already succeeded.
	go h.publishEvent(ad, placement)

	return c.JSON(http.StatusOK, placement)
}

// publishEvent maps a placement onto the broker event and publishes it with
// a bounded timeout.  Failures are logged inside the publisher.
func (h *PlacementHandler) publishEvent(ad *model.Advertisement, p model.Placement) {
	ev := queue.PlacementAssignedEvent{
		AdID:       p.AdID,
		AdName:     ad.Name,
		ScreenID:   p.ScreenID,
		ZoneID:     p.ZoneID,
		X:          p.X,
		Y:          p.Y,
		AssignedAt: p.AssignedAt.Format(time.RFC3339),
	}
	if p.ScreenType != nil {
		ev.ScreenType = *p.ScreenType
	}
	if p.AdCategory != nil {
		ev.AdCategory = *p.AdCategory
	}
	if p.TimeWindow != nil {
		ev.TimeWindow = *p.TimeWindow
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishPlacementAssigned(ctx, h.RabbitMQURL, ev)
}
