package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/model"
	"github.com/godsaeng/godsaeng-backend/internal/queue"
	"github.com/godsaeng/godsaeng-backend/internal/repository"
	queue_publisher "github.com/godsaeng/godsaeng-backend/internal/service"
	"github.com/godsaeng/godsaeng-backend/internal/utils"
)

// EventHandler bundles dependencies for schedule event endpoints. All of
// them sit behind the session middleware; the caller's identity comes from
// the session bag and the record's owner from a fresh storage read at the
// time of each mutation.
type EventHandler struct {
	Events repository.EventStore

	// publish sends a best-effort schedule-change message; failures are
	// ignored by the handlers. Swapped out in tests.
	publish func(ctx context.Context, ev queue.ScheduleChanged) error
}

func NewEventHandler(events repository.EventStore) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, publish: queue_publisher.PublishScheduleChanged}
}

// ----- DTOs -----

type createEventReq struct {
	Note      string `json:"note"`
	EventDate string `json:"event_date"`
}
type patchEventReq struct {
	ID           uint64 `json:"id"`
	NewNote      string `json:"new_note"`
	NewEventDate string `json:"new_event_date"`
}
type deleteEventReq struct {
	ID uint64 `json:"id"`
}

type eventResp struct {
	ID        uint64 `json:"id"`
	OwnerID   uint64 `json:"owner_id"`
	Note      string `json:"note"`
	EventDate string `json:"event_date"`
}

func toEventResp(e *model.Event) eventResp {
	return eventResp{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Note:      e.Note,
		EventDate: utils.FormatEventDate(e.EventDate),
	}
}

// notify fires a best-effort schedule-change message.
func (h *EventHandler) notify(ctx context.Context, action string, e *model.Event) {
	_ = h.publish(ctx, queue.ScheduleChanged{
		Action:    action,
		EventID:   e.ID,
		OwnerID:   e.OwnerID,
		Note:      e.Note,
		EventDate: utils.FormatEventDate(e.EventDate),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateEvent handles POST /event. The new record is bound at birth to the
// authenticated caller; owner_id never changes afterwards.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := utils.ParseEventDate(req.EventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be a valid YYYY-MM-DD date"})
	}

	ev := &model.Event{OwnerID: uid, Note: req.Note, EventDate: date}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}
	h.notify(c.Request().Context(), "created", ev)
	return c.JSON(http.StatusCreated, echo.Map{"id": ev.ID})
}

// PatchEvent handles PATCH /event. Ownership is read fresh from storage:
// a missing record is 404, someone else's record is 403, and only then are
// note and event_date replaced together.
func (h *EventHandler) PatchEvent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req patchEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := utils.ParseEventDate(req.NewEventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_event_date must be a valid YYYY-MM-DD date"})
	}

	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ev.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	updated, err := h.Events.Update(ctx, req.ID, req.NewNote, date)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update event"})
	}
	h.notify(ctx, "updated", updated)
	return c.JSON(http.StatusOK, toEventResp(updated))
}

// DeleteEvent handles DELETE /event with the same ownership enforcement as
// PatchEvent.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req deleteEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ev.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Events.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete event"})
	}
	h.notify(ctx, "deleted", ev)
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}

// ListEvents handles GET /events and returns the caller's own events.
func (h *EventHandler) ListEvents(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Events.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]eventResp, 0, len(items))
	for _, e := range items {
		out = append(out, toEventResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
