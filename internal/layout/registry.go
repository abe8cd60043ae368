package layout // layout knows the spatial arrangement of screens in the venue

import (
	"fmt"

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// Registry produces the immutable set of zones and screens for the venue.
// The layout is static: three zones with deterministic screen IDs derived
// from the grid position.  GetLayout is pure and is expected to be called
// once, at composition time, to build the spatial index.
type Registry struct{}

// NewRegistry constructs a layout registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// GetLayout returns the ordered list of zones.  Screens inside each zone are
// ordered row-major, which fixes the construction order used for distance
// tie-breaking further down the line.
func (r *Registry) GetLayout() []model.Zone {
	zones := make([]model.Zone, 0, 3)

	// GlassFloor: 4x4 grid of tiles in the centre of the venue.
	zones = append(zones, buildZone(
		"glassfloor", "GlassFloor", "Glass floor grid at the centre of the venue",
		4, 4, "GF", "glassfloor_tile",
	))

	// Surrounding: 2x4 banner screens around the perimeter.
	zones = append(zones, buildZone(
		"surrounding", "Surrounding Screens", "Perimeter screens around the venue",
		2, 4, "SUR", "surrounding_banner",
	))

	// Megatron: 2x2 large central panels.
	zones = append(zones, buildZone(
		"megatron", "Megatron Screens", "Large central panels (Megatron)",
		2, 2, "MEGA", "megatron_panel",
	))

	return zones
}

// buildZone fills a zone with rows*cols screens in row-major order.  Screen
// IDs follow the "<prefix>-<row>-<col>" convention.
func buildZone(id, name, description string, rows, cols int, prefix, screenType string) model.Zone {
	screens := make([]model.Screen, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			screens = append(screens, model.Screen{
				ID:         fmt.Sprintf("%s-%d-%d", prefix, row, col),
				ZoneID:     id,
				Row:        row,
				Col:        col,
				ScreenType: screenType,
			})
		}
	}
	return model.Zone{
		ID:          id,
		Name:        name,
		Description: description,
		Rows:        rows,
		Cols:        cols,
		Screens:     screens,
	}
}
