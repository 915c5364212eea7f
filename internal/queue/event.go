// Package queue defines message payloads exchanged over the message broker.
package queue

// ScheduleChanged is published whenever an event record is created, patched
// or deleted. It carries enough information for downstream consumers such
// as reminder notifiers to act without querying the primary database.
type ScheduleChanged struct {
	Action    string `json:"action"` // created | updated | deleted
	EventID   uint64 `json:"event_id"`
	OwnerID   uint64 `json:"owner_id"`
	Note      string `json:"note,omitempty"`
	EventDate string `json:"event_date,omitempty"` // YYYY-MM-DD
	ChangedAt string `json:"changed_at"`           // RFC3339, UTC
}
