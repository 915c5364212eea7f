package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/godsaeng/godsaeng-backend/internal/model"
)

// EventRepo persists schedule events in the `events` table.
type EventRepo struct{ db *sql.DB }

// NewEventRepo constructs an EventRepo with the provided DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

var _ EventStore = (*EventRepo)(nil)

// Create inserts a new event. On success the event's ID field is populated
// with the auto-generated value and a follow-up SELECT fills the timestamp
// fields so callers receive a fully populated record.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const qInsert = "INSERT INTO events (owner_id, note, event_date) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, e.OwnerID, e.Note, e.EventDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const qSelect = "SELECT owner_id, note, event_date, created_at, updated_at FROM events WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, e.ID).
		Scan(&e.OwnerID, &e.Note, &e.EventDate, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID fetches an event by its ID regardless of owner. Callers enforce
// ownership themselves with a fresh read like this one; the owner is never
// taken from session state.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = "SELECT id, owner_id, note, event_date, created_at, updated_at FROM events WHERE id = ?"
	var e model.Event
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&e.ID, &e.OwnerID, &e.Note, &e.EventDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update replaces note and event_date together. owner_id is deliberately
// absent from the SET list; it is assigned once at creation and never
// changes.
func (r *EventRepo) Update(ctx context.Context, id uint64, note string, eventDate time.Time) (*model.Event, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE events SET note = ?, event_date = ? WHERE id = ?",
		note, eventDate, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the event row.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// DeleteByOwner removes all events owned by the given user.
func (r *EventRepo) DeleteByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE owner_id = ?", ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByOwner returns all events for a specific owner ordered by id.
func (r *EventRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Event, error) {
	const q = `SELECT id, owner_id, note, event_date, created_at, updated_at
	           FROM events WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		e := new(model.Event)
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Note, &e.EventDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
