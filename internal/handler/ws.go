package handler

// Websocket endpoints.  Three streams are exposed:
//
//   /ws/placements – event-driven placement stream: one snapshot on connect,
//                    then one assignment event per successful assign.
//   /ws/recommend  – request/response recommendation queries over one
//                    persistent connection; a malformed request yields an
//                    error object without closing the connection.
//   /ws/ads        – periodic advertisement list refresh with content-hash
//                    deduplication; optionally wrapped in signed envelopes.

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/geo-ads-backend/internal/hub"
	"github.com/iliyamo/geo-ads-backend/internal/layout"
	"github.com/iliyamo/geo-ads-backend/internal/model"
	"github.com/iliyamo/geo-ads-backend/internal/repository"
	"github.com/iliyamo/geo-ads-backend/internal/security"
)

// adsRefreshInterval is the fixed tick of the /ws/ads broadcast loop.
const adsRefreshInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Display nodes connect from their own origins; access control is out
	// of scope here, so all origins are accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler owns the websocket endpoints and their collaborators.
type WSHandler struct {
	Hub    *hub.Hub
	Index  *layout.SpatialIndex
	AdRepo AdvertisementStore

	// Signing is active when SigningSecret is non-empty.
	SigningSecret string
	NodeID        string
	Engine        *security.Engine
}

// Placements upgrades the connection and registers it as a placement stream
// subscriber.  The read side only watches for disconnect; every exit path,
// normal or not, runs the unsubscribe step.
func (h *WSHandler) Placements(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := hub.NewSubscriber(conn)
	h.Hub.Subscribe(sub)
	go sub.WritePump(h.Hub)

	defer h.Hub.Unsubscribe(sub)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// recommendRequest is one inbound query on the /ws/recommend stream.
// Pointer fields distinguish absent values from zero values.
type recommendRequest struct {
	AdID       *uint64  `json:"ad_id"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Radius     *float64 `json:"radius"`
	ZoneID     *string  `json:"zone_id"`
	ScreenType *string  `json:"screen_type"`
	AdCategory *string  `json:"ad_category"`
	TimeWindow *string  `json:"time_window"`
}

// wsError is the error object written for a failed query.
type wsError struct {
	Error string `json:"error"`
}

// Recommend serves recommendation queries over a persistent connection.
// Each inbound JSON message is answered with either a recommendation or an
// error object; only a transport error ends the session.
func (h *WSHandler) Recommend(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return nil // client went away
		}

		resp := h.answerRecommend(c, raw)
		if err := conn.WriteJSON(resp); err != nil {
			return nil
		}
	}
}

// answerRecommend validates one query and computes the response object.
// Validation failures never touch the index.
func (h *WSHandler) answerRecommend(c echo.Context, raw []byte) any {
	var req recommendRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return wsError{Error: "invalid payload"}
	}
	if req.X == nil || req.Y == nil {
		return wsError{Error: "missing target coordinates"}
	}

	radius := defaultRadius
	if req.Radius != nil {
		radius = *req.Radius
	}

	opts := layout.RecommendOptions{
		Zone:       req.ZoneID,
		ScreenType: req.ScreenType,
		AdCategory: req.AdCategory,
		TimeWindow: req.TimeWindow,
	}

	// An ad-scoped query replaces the zone filter with the advertisement's
	// registered zone.
	if req.AdID != nil {
		ad, err := h.AdRepo.GetByID(c.Request().Context(), *req.AdID)
		if err != nil {
			if errors.Is(err, repository.ErrAdvertisementNotFound) {
				return wsError{Error: "advertisement not found"}
			}
			return wsError{Error: "database error"}
		}
		opts.Zone = &ad.Zone
	}

	key, distance, err := h.Index.Recommend(*req.X, *req.Y, radius, opts)
	if err != nil {
		if errors.Is(err, layout.ErrNoScreenAvailable) {
			return wsError{Error: "no suitable screen found"}
		}
		return wsError{Error: "recommendation failed"}
	}
	return model.RecommendationFromKey(key, distance)
}

// Ads streams the advertisement list on a fixed interval.  A tick sends
// nothing when the payload hashes identically to the previous emission, so
// an idle list produces no traffic.  The loop suspends between ticks and
// ends when the peer disconnects.
func (h *WSHandler) Ads(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Watch the read side so a disconnect wakes the tick loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(adsRefreshInterval)
	defer ticker.Stop()

	var lastHash string
	for {
		// First iteration sends immediately; afterwards, once per tick.
		if err := h.sendAdsIfChanged(c, conn, &lastHash); err != nil {
			return nil
		}

		select {
		case <-done:
			return nil
		case <-ticker.C:
		}
	}
}

// sendAdsIfChanged loads the advertisement list, hashes the payload and
// writes it only when it differs from the previous emission.
func (h *WSHandler) sendAdsIfChanged(c echo.Context, conn *websocket.Conn, lastHash *string) error {
	ads, err := h.AdRepo.ListAll(c.Request().Context())
	if err != nil {
		log.Printf("ws-ads: list advertisements failed: %v", err)
		return nil // transient; try again next tick
	}

	items := make([]AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		items = append(items, toAdvertisementResponse(ad))
	}
	payload := hub.Message{Type: "ads_list", Data: items}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(raw)
	digest := hex.EncodeToString(sum[:])
	if digest == *lastHash {
		return nil
	}

	out, err := h.wrapOutbound(payload, raw)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(out); err != nil {
		return err
	}
	*lastHash = digest
	return nil
}

// wrapOutbound returns the payload as-is, or inside a signed envelope when
// a signing secret is configured.
func (h *WSHandler) wrapOutbound(payload hub.Message, raw []byte) (any, error) {
	if h.SigningSecret == "" || h.Engine == nil {
		return payload, nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return security.NewSignedMessage(h.Engine, h.SigningSecret, h.NodeID, security.RoleSystem, "ADS_LIST", nil, body)
}
