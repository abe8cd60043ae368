package model

import "time"

// Placement records that an advertisement was assigned to a specific screen
// at a specific time.  Placements are created only by the ledger's assign
// operation, never mutated or deleted, and live only for the lifetime of the
// process.
//
// Fields:
//  AdID       – identifier of the assigned advertisement.
//  ScreenID   – screen the advertisement was assigned to.
//  ZoneID     – zone of that screen.
//  X, Y       – planar position copied from the key used for the assignment.
//  ScreenType – optional screen type copied from the key.
//  AdCategory – optional advertisement category copied from the key.
//  TimeWindow – optional time window copied from the key.
//  AssignedAt – UTC timestamp taken when the assignment was made.
type Placement struct {
	AdID     uint64  `json:"ad_id"`
	ScreenID string  `json:"screen_id"`
	ZoneID   string  `json:"zone_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`

	ScreenType *string `json:"screen_type,omitempty"`
	AdCategory *string `json:"ad_category,omitempty"`
	TimeWindow *string `json:"time_window,omitempty"`

	AssignedAt time.Time `json:"assigned_at"`
}
