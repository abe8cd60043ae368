package model

// Screen describes a single physical display unit inside a zone.  Screens
// are addressed by their zone and grid position; the combination of
// (ZoneID, Row, Col) is unique across the whole venue.  A screen never
// changes after the layout has been built.
//
// Fields:
//  ID         – unique identifier, e.g. "GF-1-2".
//  ZoneID     – identifier of the zone this screen belongs to.
//  Row        – grid row inside the zone (0-based).
//  Col        – grid column inside the zone (0-based).
//  ScreenType – free-form type tag, e.g. "glassfloor_tile"; defaults to "generic".
//  Tags       – optional labels such as "premium" or "vip_side".
//  Metadata   – free-form key/value data reserved for future use.
type Screen struct {
	ID         string         `json:"id"`          // unique screen identifier
	ZoneID     string         `json:"zone_id"`     // owning zone
	Row        int            `json:"row"`         // grid row within the zone
	Col        int            `json:"col"`         // grid column within the zone
	ScreenType string         `json:"screen_type"` // type tag (default "generic")
	Tags       []string       `json:"tags,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// DefaultScreenType is applied when a screen is built without an explicit type.
const DefaultScreenType = "generic"
