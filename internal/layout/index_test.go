package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

func newTestIndex(t *testing.T) *SpatialIndex {
	t.Helper()
	return NewSpatialIndex(NewRegistry().GetLayout())
}

func TestRegistryLayout(t *testing.T) {
	zones := NewRegistry().GetLayout()
	require.Len(t, zones, 3)

	assert.Equal(t, "glassfloor", zones[0].ID)
	assert.Len(t, zones[0].Screens, 16)
	assert.Equal(t, "surrounding", zones[1].ID)
	assert.Len(t, zones[1].Screens, 8)
	assert.Equal(t, "megatron", zones[2].ID)
	assert.Len(t, zones[2].Screens, 4)

	// IDs are derived from the grid position and screens are row-major.
	assert.Equal(t, "GF-0-0", zones[0].Screens[0].ID)
	assert.Equal(t, "GF-0-1", zones[0].Screens[1].ID)
	assert.Equal(t, "GF-3-3", zones[0].Screens[15].ID)
	assert.Equal(t, "glassfloor_tile", zones[0].Screens[0].ScreenType)
	assert.Equal(t, "megatron_panel", zones[2].Screens[0].ScreenType)

	// (zone, row, col) is unique across the whole screen set.
	seen := map[[3]any]bool{}
	for _, z := range zones {
		for _, s := range z.Screens {
			key := [3]any{s.ZoneID, s.Row, s.Col}
			assert.False(t, seen[key], "duplicate grid position %v", key)
			seen[key] = true
			assert.Equal(t, z.ID, s.ZoneID)
		}
	}
}

func TestQueryByZone(t *testing.T) {
	idx := newTestIndex(t)

	screens := idx.QueryByZone("glassfloor")
	require.Len(t, screens, 16)
	// Construction order is preserved.
	assert.Equal(t, "GF-0-0", screens[0].ID)
	assert.Equal(t, "GF-1-0", screens[4].ID)

	// Unknown zones yield an empty sequence, not an error.
	assert.Empty(t, idx.QueryByZone("vip-lounge"))
}

func TestQueryByGrid(t *testing.T) {
	idx := newTestIndex(t)

	s, ok := idx.QueryByGrid("surrounding", 1, 3)
	require.True(t, ok)
	assert.Equal(t, "SUR-1-3", s.ID)

	// Absence is a normal not-found, both for empty cells and unknown zones.
	_, ok = idx.QueryByGrid("surrounding", 5, 0)
	assert.False(t, ok)
	_, ok = idx.QueryByGrid("nowhere", 0, 0)
	assert.False(t, ok)
}

func TestQueryNearBoundaryInclusive(t *testing.T) {
	idx := newTestIndex(t)
	zone := "glassfloor"

	// Radius 1.0 around (1, 1): the four axis neighbours sit exactly on the
	// boundary and must be included; diagonals at sqrt(2) must not.
	got := idx.QueryNear(1, 1, 1.0, &zone)
	ids := screenIDs(got)
	assert.ElementsMatch(t, []string{"GF-0-1", "GF-1-0", "GF-1-1", "GF-1-2", "GF-2-1"}, ids)
}

func TestQueryNearMatchesDistancePredicate(t *testing.T) {
	idx := newTestIndex(t)

	// A screen is in the result iff its distance is <= radius: cross-check
	// the scan against the predicate over the full screen set.
	x, y, radius := 2.3, 0.7, 1.9
	got := map[string]bool{}
	for _, s := range idx.QueryNear(x, y, radius, nil) {
		got[s.ID] = true
	}
	for _, s := range idx.AllScreens() {
		want := math.Hypot(float64(s.Col)-x, float64(s.Row)-y) <= radius
		assert.Equal(t, want, got[s.ID], "screen %s", s.ID)
	}
}

func TestQueryNearZoneFilter(t *testing.T) {
	idx := newTestIndex(t)
	zone := "megatron"

	// Every zone overlaps the same planar origin, so the filter is what
	// keeps the other zones' screens out.
	got := idx.QueryNear(0, 0, 1.0, &zone)
	for _, s := range got {
		assert.Equal(t, "megatron", s.ZoneID)
	}
	assert.ElementsMatch(t, []string{"MEGA-0-0", "MEGA-0-1", "MEGA-1-0"}, screenIDs(got))
}

func TestBuildKeys(t *testing.T) {
	idx := newTestIndex(t)
	category := "sports"

	keys := idx.BuildKeys(&category, nil)
	screens := idx.AllScreens()
	require.Len(t, keys, len(screens))

	for i, key := range keys {
		s := screens[i]
		assert.Equal(t, s.ID, key.ScreenID)
		assert.Equal(t, float64(s.Col), key.X)
		assert.Equal(t, float64(s.Row), key.Y)
		assert.Equal(t, s.ScreenType, key.ScreenType)
		require.NotNil(t, key.AdCategory)
		assert.Equal(t, "sports", *key.AdCategory)
		assert.Nil(t, key.TimeWindow)
	}
}

func TestKeyFromScreenPlanarEmbedding(t *testing.T) {
	s := model.Screen{ID: "GF-2-3", ZoneID: "glassfloor", Row: 2, Col: 3, ScreenType: "glassfloor_tile"}
	key := model.KeyFromScreen(s, nil, nil)
	assert.Equal(t, 3.0, key.X) // x = col
	assert.Equal(t, 2.0, key.Y) // y = row
}

func screenIDs(screens []model.Screen) []string {
	ids := make([]string, 0, len(screens))
	for _, s := range screens {
		ids = append(ids, s.ID)
	}
	return ids
}
