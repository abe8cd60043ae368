package layout

import (
	"errors"
	"math"

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// ErrNoScreenAvailable is returned by Recommend when no candidate survives
// the radius and filter stages.  It marks an expected outcome, not a fault;
// handlers translate it into a 404 or a stream error object.
var ErrNoScreenAvailable = errors.New("no suitable screen found")

// RecommendOptions carries the optional filters and logical dimensions of a
// recommendation query.  A nil field means the dimension is absent.
type RecommendOptions struct {
	Zone       *string // restrict candidates to one zone
	ScreenType *string // keep only screens of this type
	AdCategory *string // stamped onto the returned key, never filtered on
	TimeWindow *string // stamped onto the returned key, never filtered on
}

// screenFilter is one predicate stage of the candidate pipeline.
type screenFilter func(model.Screen) bool

// matchesScreenType keeps candidates whose type equals want.
func matchesScreenType(want string) screenFilter {
	return func(s model.Screen) bool { return s.ScreenType == want }
}

// applyFilters runs every stage over the candidates, in order.
func applyFilters(candidates []model.Screen, filters ...screenFilter) []model.Screen {
	out := candidates
	for _, keep := range filters {
		kept := out[:0:0]
		for _, s := range out {
			if keep(s) {
				kept = append(kept, s)
			}
		}
		out = kept
	}
	return out
}

// Recommend selects the best screen for a target point: candidates within
// radius of (x, y), filtered by zone and screen type, ranked by Euclidean
// distance.  Equal distances are resolved in favour of the candidate that
// appears first in the index construction order; the strict "<" comparison
// below makes that explicit rather than relying on collection order.
//
// The winner is wrapped as a MultiIndexKey carrying the supplied logical
// dimensions and returned together with its distance.  When no candidate
// survives, ErrNoScreenAvailable is returned.
func (idx *SpatialIndex) Recommend(x, y, radius float64, opts RecommendOptions) (model.MultiIndexKey, float64, error) {
	candidates := idx.QueryNear(x, y, radius, opts.Zone)

	var filters []screenFilter
	if opts.ScreenType != nil {
		filters = append(filters, matchesScreenType(*opts.ScreenType))
	}
	candidates = applyFilters(candidates, filters...)

	if len(candidates) == 0 {
		return model.MultiIndexKey{}, 0, ErrNoScreenAvailable
	}

	best := candidates[0]
	bestDist := math.Hypot(float64(best.Col)-x, float64(best.Row)-y)
	for _, s := range candidates[1:] {
		d := math.Hypot(float64(s.Col)-x, float64(s.Row)-y)
		if d < bestDist { // ties keep the earlier candidate
			best = s
			bestDist = d
		}
	}

	key := model.KeyFromScreen(best, opts.AdCategory, opts.TimeWindow)
	return key, bestDist, nil
}
