package model

// MultiIndexKey is a query-time projection of a screen combined with the
// logical dimensions supplied by the caller.  Keys are derived on demand
// from the spatial index and are never stored; the planar position uses
// x = col and y = row.
//
// Fields:
//  ScreenID   – identifier of the projected screen.
//  ZoneID     – zone the screen belongs to.
//  X, Y       – planar position of the screen in grid units.
//  ScreenType – the screen's type tag.
//  AdCategory – optional advertisement category, e.g. "tech".
//  TimeWindow – optional time window, e.g. "prime_time".
type MultiIndexKey struct {
	ScreenID   string  `json:"screen_id"`
	ZoneID     string  `json:"zone_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ScreenType string  `json:"screen_type"`

	// Logical dimensions supplied per query, not stored on the screen.
	AdCategory *string `json:"ad_category,omitempty"`
	TimeWindow *string `json:"time_window,omitempty"`
}

// KeyFromScreen builds a MultiIndexKey for a screen plus the optional logical
// dimensions.  The planar position is taken from the grid: x = col, y = row.
func KeyFromScreen(s Screen, adCategory, timeWindow *string) MultiIndexKey {
	return MultiIndexKey{
		ScreenID:   s.ID,
		ZoneID:     s.ZoneID,
		X:          float64(s.Col),
		Y:          float64(s.Row),
		ScreenType: s.ScreenType,
		AdCategory: adCategory,
		TimeWindow: timeWindow,
	}
}

// Recommendation is the result of a screen recommendation query: the chosen
// key's fields plus the Euclidean distance from the target point, in grid
// units.  Distance is always non-negative.
type Recommendation struct {
	ScreenID   string  `json:"screen_id"`
	ZoneID     string  `json:"zone_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ScreenType string  `json:"screen_type"`
	AdCategory *string `json:"ad_category,omitempty"`
	TimeWindow *string `json:"time_window,omitempty"`
	Distance   float64 `json:"distance"`
}

// RecommendationFromKey pairs a key with its computed distance.
func RecommendationFromKey(key MultiIndexKey, distance float64) Recommendation {
	return Recommendation{
		ScreenID:   key.ScreenID,
		ZoneID:     key.ZoneID,
		X:          key.X,
		Y:          key.Y,
		ScreenType: key.ScreenType,
		AdCategory: key.AdCategory,
		TimeWindow: key.TimeWindow,
		Distance:   distance,
	}
}
