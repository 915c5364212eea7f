package model

import "time"

// Event represents a schedule entry owned by exactly one user. OwnerID is
// assigned once at creation from the authenticated caller and never
// reassigned; every mutation re-checks it against the caller's identity.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the owner (set at birth, immutable).
//  Note      – free-form text attached to the entry.
//  EventDate – calendar date of the entry (time component unused).
//  CreatedAt – timestamp when the row was created.
//  UpdatedAt – timestamp of last update.
type Event struct {
	ID        uint64    // events.id
	OwnerID   uint64    // events.owner_id
	Note      string    // events.note
	EventDate time.Time // events.event_date
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}
