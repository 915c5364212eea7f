package repository

import (
	"context"
	"time"

	"github.com/godsaeng/godsaeng-backend/internal/model"
)

// UserStore is the persistence contract for accounts. Handlers depend on
// this interface so tests can substitute an in-memory implementation.
type UserStore interface {
	// Create inserts a new user with a bcrypt-hashed password and returns
	// its ID. Returns ErrNameExists when the name is already taken.
	Create(ctx context.Context, name, password string, cost int) (uint64, error)

	// FindByID fetches a user by primary key. Returns ErrUserNotFound when
	// no row matches.
	FindByID(ctx context.Context, id uint64) (*model.User, error)

	// FindByName fetches a user by its unique name. Returns ErrUserNotFound
	// when no row matches.
	FindByName(ctx context.Context, name string) (*model.User, error)

	// UpdateCredentials replaces both name and password in one statement
	// and returns the updated user. Returns ErrNameExists on a name
	// collision and ErrUserNotFound when the user no longer exists.
	UpdateCredentials(ctx context.Context, id uint64, name, password string, cost int) (*model.User, error)

	// Delete removes the user row. Returns ErrUserNotFound when no row was
	// affected.
	Delete(ctx context.Context, id uint64) error
}

// EventStore is the persistence contract for schedule events. Ownership is
// a property of the stored row; callers must read it fresh at mutation time
// rather than caching it in session state.
type EventStore interface {
	// Create inserts a new event and populates its ID and timestamps.
	Create(ctx context.Context, e *model.Event) error

	// GetByID fetches an event regardless of owner. Returns
	// ErrEventNotFound when no row matches.
	GetByID(ctx context.Context, id uint64) (*model.Event, error)

	// Update replaces note and event_date together and returns the updated
	// event. Returns ErrEventNotFound when no row matches.
	Update(ctx context.Context, id uint64, note string, eventDate time.Time) (*model.Event, error)

	// Delete removes the event row. Returns ErrEventNotFound when no row
	// was affected.
	Delete(ctx context.Context, id uint64) error

	// DeleteByOwner removes all events owned by the given user and returns
	// the number of rows deleted. Used by the cascade account-deletion
	// policy.
	DeleteByOwner(ctx context.Context, ownerID uint64) (int64, error)

	// ListByOwner returns all events for a specific owner ordered by id.
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Event, error)
}
