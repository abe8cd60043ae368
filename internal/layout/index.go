package layout

import (
	"math"

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// coordEntry pins a screen to its planar position.  The planar embedding is
// x = col, y = row; distances are plain Euclidean in grid units, no
// geographic projection is ever applied.
type coordEntry struct {
	x      float64
	y      float64
	screen model.Screen
}

// SpatialIndex maintains three simultaneous views over the same screen set:
// per zone, per (zone, row, col) cell, and a flat ordered coordinate
// sequence.  It is built once from the registry output and is read-only
// afterwards, so concurrent readers need no synchronization.
type SpatialIndex struct {
	zonesByID     map[string]model.Zone
	screens       []model.Screen // flat list, zone order then row-major
	screensByZone map[string][]model.Screen
	screensByGrid map[gridKey]model.Screen
	coords        []coordEntry // same order as screens
}

// gridKey addresses a single cell of a zone's grid.
type gridKey struct {
	zoneID string
	row    int
	col    int
}

// NewSpatialIndex builds all three views from the given zones.  The flat
// screen order follows the zone list and, inside each zone, the zone's own
// screen order; that order is the construction order referenced by the
// recommender's tie-break rule.
func NewSpatialIndex(zones []model.Zone) *SpatialIndex {
	idx := &SpatialIndex{
		zonesByID:     make(map[string]model.Zone, len(zones)),
		screensByZone: make(map[string][]model.Screen),
		screensByGrid: make(map[gridKey]model.Screen),
	}

	for _, z := range zones {
		idx.zonesByID[z.ID] = z
		for _, s := range z.Screens {
			idx.screens = append(idx.screens, s)
			idx.screensByZone[s.ZoneID] = append(idx.screensByZone[s.ZoneID], s)
			idx.screensByGrid[gridKey{zoneID: s.ZoneID, row: s.Row, col: s.Col}] = s
			idx.coords = append(idx.coords, coordEntry{
				x:      float64(s.Col),
				y:      float64(s.Row),
				screen: s,
			})
		}
	}

	return idx
}

// QueryByZone returns all screens of a zone in construction order.  An
// unknown zone yields an empty slice, not an error.
func (idx *SpatialIndex) QueryByZone(zoneID string) []model.Screen {
	src := idx.screensByZone[zoneID]
	out := make([]model.Screen, len(src))
	copy(out, src)
	return out
}

// QueryByGrid looks up the screen at an exact grid cell.  The second return
// value reports whether the cell exists; absence is a normal outcome.
func (idx *SpatialIndex) QueryByGrid(zoneID string, row, col int) (model.Screen, bool) {
	s, ok := idx.screensByGrid[gridKey{zoneID: zoneID, row: row, col: col}]
	return s, ok
}

// QueryNear returns every screen whose Euclidean distance from (x, y) is at
// most radius, boundary inclusive, optionally restricted to one zone.  The
// scan runs over the flat coordinate sequence; at venue scale (tens to low
// hundreds of screens) a linear pass is the contract, not a shortcut.
func (idx *SpatialIndex) QueryNear(x, y, radius float64, zoneID *string) []model.Screen {
	results := make([]model.Screen, 0)
	for _, c := range idx.coords {
		if zoneID != nil && c.screen.ZoneID != *zoneID {
			continue
		}
		if math.Hypot(c.x-x, c.y-y) <= radius {
			results = append(results, c.screen)
		}
	}
	return results
}

// AllScreens returns a copy of the flat screen list in construction order.
func (idx *SpatialIndex) AllScreens() []model.Screen {
	out := make([]model.Screen, len(idx.screens))
	copy(out, idx.screens)
	return out
}

// Zone returns the zone the index was built from, if known.
func (idx *SpatialIndex) Zone(zoneID string) (model.Zone, bool) {
	z, ok := idx.zonesByID[zoneID]
	return z, ok
}

// BuildKeys derives one MultiIndexKey per screen, in flat construction
// order, each carrying the supplied logical dimensions unchanged.
func (idx *SpatialIndex) BuildKeys(adCategory, timeWindow *string) []model.MultiIndexKey {
	keys := make([]model.MultiIndexKey, 0, len(idx.screens))
	for _, s := range idx.screens {
		keys = append(keys, model.KeyFromScreen(s, adCategory, timeWindow))
	}
	return keys
}
