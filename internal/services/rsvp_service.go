package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/models"
)

// RsvpService is the capacity-and-rating engine. All mutations for one
// event serialize through a per-event mutex, and the capacity check itself
// additionally rides on the store's atomic conditional increment, so the
// going count can never exceed capacity however many participants toggle
// at once.
type RsvpService struct {
	eventsRepo models.EventsRepo
	rsvpRepo   models.RsvpRepo
	logger     *slog.Logger
	locks      sync.Map // event id -> *sync.Mutex
}

func NewRsvpService(eventsRepo models.EventsRepo, rsvpRepo models.RsvpRepo, logger *slog.Logger) *RsvpService {
	return &RsvpService{
		eventsRepo: eventsRepo,
		rsvpRepo:   rsvpRepo,
		logger:     logger,
	}
}

func (rs *RsvpService) lock(eventID uuid.UUID) func() {
	v, _ := rs.locks.LoadOrStore(eventID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Status returns the authoritative attendance state. Count and average are
// public; going and selfRating are only present for an authenticated caller.
func (rs *RsvpService) Status(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID) (*models.RsvpStatus, error) {
	event, err := rs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	status := &models.RsvpStatus{
		Count:         event.GoingCount,
		AverageRating: event.RatingAvg(),
	}
	if userID == nil {
		return status, nil
	}

	going := false
	rsvp, err := rs.rsvpRepo.GetRsvp(ctx, eventID, *userID)
	switch {
	case err == nil:
		going = rsvp.Going
		status.SelfRating = rsvp.Rating
	case errors.Is(err, models.ErrNotFound):
		// first contact with this event; an empty record is implied
	default:
		return nil, err
	}
	status.Going = &going
	return status, nil
}

// Toggle flips the caller's attendance. Turning on commits through the
// store's conditional increment and fails with ErrCapacityExceeded when the
// event is full at the moment of commit. Turning off always succeeds and
// leaves any submitted rating counted.
func (rs *RsvpService) Toggle(ctx context.Context, eventID, userID uuid.UUID) (*models.RsvpStatus, error) {
	unlock := rs.lock(eventID)
	defer unlock()

	if _, err := rs.eventsRepo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	rsvp, err := rs.rsvpRepo.GetRsvp(ctx, eventID, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		rsvp = &models.Rsvp{EventID: eventID, UserID: userID}
	}

	if rsvp.Going {
		if err := rs.eventsRepo.DecrementGoing(ctx, eventID); err != nil {
			return nil, err
		}
		rsvp.Going = false
		if err := rs.rsvpRepo.UpsertRsvp(ctx, rsvp); err != nil {
			// Compensate so the freed seat is not handed out while the
			// record still says going.
			if _, ierr := rs.eventsRepo.TryIncrementGoing(ctx, eventID); ierr != nil {
				rs.logger.Error("failed to restore seat after rsvp write failure", "event_id", eventID, "error", ierr)
			}
			return nil, err
		}
	} else {
		applied, err := rs.eventsRepo.TryIncrementGoing(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, models.ErrCapacityExceeded
		}
		rsvp.Going = true
		if err := rs.rsvpRepo.UpsertRsvp(ctx, rsvp); err != nil {
			// Release the seat taken by the increment, otherwise it stays
			// occupied by nobody.
			if derr := rs.eventsRepo.DecrementGoing(ctx, eventID); derr != nil {
				rs.logger.Error("failed to release seat after rsvp write failure", "event_id", eventID, "error", derr)
			}
			return nil, err
		}
	}

	return rs.Status(ctx, eventID, &userID)
}

// Rate records the caller's 1..5 rating while they are going. Re-rating
// adjusts the running sum by the delta instead of counting twice.
func (rs *RsvpService) Rate(ctx context.Context, eventID, userID uuid.UUID, rating int) (*models.RsvpStatus, error) {
	if rating < 1 || rating > 5 {
		return nil, models.NewValidationError("rating", "must be between 1 and 5")
	}

	unlock := rs.lock(eventID)
	defer unlock()

	rsvp, err := rs.rsvpRepo.GetRsvp(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: rating requires active attendance", models.ErrInvalidState)
		}
		return nil, err
	}
	if !rsvp.Going {
		return nil, fmt.Errorf("%w: rating requires active attendance", models.ErrInvalidState)
	}

	switch prior := rsvp.Rating; {
	case prior == nil:
		if err := rs.eventsRepo.ApplyRatingDelta(ctx, eventID, rating, 1); err != nil {
			return nil, err
		}
	case *prior != rating:
		if err := rs.eventsRepo.ApplyRatingDelta(ctx, eventID, rating-*prior, 0); err != nil {
			return nil, err
		}
	}

	rsvp.Rating = &rating
	if err := rs.rsvpRepo.UpsertRsvp(ctx, rsvp); err != nil {
		return nil, err
	}
	return rs.Status(ctx, eventID, &userID)
}

// JoinedEventIDs lists every event the user has an rsvp record for, used by
// the my-events projection.
func (rs *RsvpService) JoinedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rsvps, err := rs.rsvpRepo.ListRsvpsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, r := range rsvps {
		if r.Going {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}
