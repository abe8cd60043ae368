package model

// Zone is a named spatial region of the venue holding a rectangular grid of
// screens.  Zones are produced once by the layout registry and are immutable
// afterwards; every screen in Screens carries this zone's ID.
//
// Fields:
//  ID          – zone identifier, e.g. "glassfloor".
//  Name        – human readable display name.
//  Description – short description of the region.
//  Rows        – number of grid rows in the zone.
//  Cols        – number of grid columns in the zone.
//  Screens     – ordered collection of screens belonging to the zone.
type Zone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Screens     []Screen `json:"screens"`
}
