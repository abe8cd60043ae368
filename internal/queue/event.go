// Package queue defines message payloads exchanged over the message broker.
package queue

// PlacementAssignedEvent is published after an advertisement has been
// assigned to a screen.  It carries enough information for downstream
// consumers to log, bill, or feed analytics without calling back into the
// backend.
type PlacementAssignedEvent struct {
	AdID       uint64  `json:"ad_id"`
	AdName     string  `json:"ad_name"`
	ScreenID   string  `json:"screen_id"`
	ZoneID     string  `json:"zone_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ScreenType string  `json:"screen_type,omitempty"`
	AdCategory string  `json:"ad_category,omitempty"`
	TimeWindow string  `json:"time_window,omitempty"`
	AssignedAt string  `json:"assigned_at"`
}
