// Package ledger holds the in-memory, append-only record of advertisement
// assignments.  The ledger is the only piece of shared mutable state written
// from concurrent request handlers; every append happens under the store's
// own mutex so no entry is ever lost and readers never observe a
// partially-written record.  Content is not persisted and is gone on restart.
package ledger

import (
	"sync"
	"time"

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// PlacementLedger owns the ordered sequence of placements.  Callers never
// touch the backing slice directly; reads hand out copies so a snapshot
// taken at call time stays stable while new assignments keep arriving.
type PlacementLedger struct {
	mu         sync.Mutex
	placements []model.Placement
}

// New constructs an empty ledger.
func New() *PlacementLedger {
	return &PlacementLedger{}
}

// Assign builds a placement from the key's fields plus the current UTC time,
// appends it and returns it.  The append is a single mutually-exclusive
// step, so concurrent calls serialize and insertion order is well defined.
func (l *PlacementLedger) Assign(adID uint64, key model.MultiIndexKey) model.Placement {
	screenType := key.ScreenType
	p := model.Placement{
		AdID:       adID,
		ScreenID:   key.ScreenID,
		ZoneID:     key.ZoneID,
		X:          key.X,
		Y:          key.Y,
		ScreenType: &screenType,
		AdCategory: key.AdCategory,
		TimeWindow: key.TimeWindow,
		AssignedAt: time.Now().UTC(),
	}

	l.mu.Lock()
	l.placements = append(l.placements, p)
	l.mu.Unlock()

	return p
}

// ListAll returns a point-in-time copy of every placement, in insertion order.
func (l *PlacementLedger) ListAll() []model.Placement {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Placement, len(l.placements))
	copy(out, l.placements)
	return out
}

// ListByScreen returns the placements for one screen, in insertion order.
func (l *PlacementLedger) ListByScreen(screenID string) []model.Placement {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Placement, 0)
	for _, p := range l.placements {
		if p.ScreenID == screenID {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the current number of placements.
func (l *PlacementLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.placements)
}
