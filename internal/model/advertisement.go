package model

import "time"

// Advertisement mirrors a row of the `advertisements` table.  The zone field
// names the zone the advertisement was registered for and is used to scope
// recommendations when a request is made per advertisement rather than with
// an explicit zone filter.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the advertisement.
//  ImageURL  – optional URL of the creative asset (nil when unset).
//  Zone      – zone identifier the advertisement targets.
//  CreatedAt – creation timestamp.
type Advertisement struct {
	ID        uint64    // advertisements.id
	Name      string    // advertisements.name
	ImageURL  *string   // advertisements.image_url (nullable)
	Zone      string    // advertisements.zone
	CreatedAt time.Time // advertisements.created_at
}
