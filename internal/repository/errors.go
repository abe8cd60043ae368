// Package repository holds the data access logic for entities stored in the
// relational database.  Sentinel errors defined here let handlers translate
// lookup failures into the right HTTP status without inspecting SQL
// internals; an unresolvable advertisement, for example, becomes a plain
// 404 rather than a server fault.
package repository

import "errors"

// ErrAdvertisementNotFound is returned when an advertisement lookup matches
// no row.  Handlers should translate this into an HTTP 404 response.
var ErrAdvertisementNotFound = errors.New("advertisement not found")
