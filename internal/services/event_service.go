package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/helpers"
	"github.com/mishgunpstlt/EventsApp/internal/models"
)

type EventService struct {
	eventsRepo models.EventsRepo
	rsvpRepo   models.RsvpRepo
	rsvps      *RsvpService
	images     ImageStore
	logger     *slog.Logger
}

func NewEventService(eventsRepo models.EventsRepo, rsvpRepo models.RsvpRepo, rsvps *RsvpService, images ImageStore, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		rsvpRepo:   rsvpRepo,
		rsvps:      rsvps,
		images:     images,
		logger:     logger,
	}
}

// List returns published events matching the filter. Rating order cannot be
// expressed as a single stored-field sort, so it is applied here after the
// fetch; the stable sort keeps the store's date order among ties.
func (es *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	events, err := es.eventsRepo.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.Sort == "rating" {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].RatingAvg() > events[j].RatingAvg()
		})
	}
	return events, nil
}

func (es *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return es.eventsRepo.GetEventByID(ctx, id)
}

// Delete removes the event, its attendance records, and its image assets.
// Asset deletion is best effort, the event record is authoritative.
func (es *EventService) Delete(ctx context.Context, id uuid.UUID, principal *models.User) error {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && event.OwnerID != principal.ID {
		return fmt.Errorf("%w: not the event owner", models.ErrForbidden)
	}

	if err := es.eventsRepo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	if err := es.rsvpRepo.DeleteRsvpsByEvent(ctx, id); err != nil {
		es.logger.Warn("failed to delete attendance records", "event_id", id, "error", err)
	}
	for _, url := range event.Images {
		filename := helpers.FilenameFromURL(url)
		if err := es.images.Delete(ctx, helpers.EventsFolder+"/"+id.String(), filename); err != nil {
			es.logger.Warn("failed to delete event image asset", "event_id", id, "filename", filename, "error", err)
		}
	}
	return nil
}

// MyAll groups the caller's events: the ones they created and the ones they
// currently attend.
func (es *EventService) MyAll(ctx context.Context, userID uuid.UUID) (*models.MyEvents, error) {
	created, err := es.eventsRepo.ListEventsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	joinedIDs, err := es.rsvps.JoinedEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined, err := es.eventsRepo.ListEventsByIDs(ctx, joinedIDs)
	if err != nil {
		return nil, err
	}
	return &models.MyEvents{CreatedEvents: created, JoinedEvents: joined}, nil
}

// AttachEventImages uploads a batch for an event and appends the assigned
// URLs to its ordered image list.
func (es *EventService) AttachEventImages(ctx context.Context, id uuid.UUID, filePaths []string, principal *models.User) ([]string, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && event.OwnerID != principal.ID {
		return nil, fmt.Errorf("%w: not the event owner", models.ErrForbidden)
	}

	urls, err := es.images.Upload(ctx, helpers.EventsFolder+"/"+id.String(), filePaths)
	if err != nil {
		return nil, err
	}
	all := append(event.Images, urls...)
	if err := es.eventsRepo.SetImages(ctx, id, all); err != nil {
		return nil, err
	}
	return all, nil
}

// RemoveEventImage deletes one image from an event by filename.
func (es *EventService) RemoveEventImage(ctx context.Context, id uuid.UUID, filename string, principal *models.User) error {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && event.OwnerID != principal.ID {
		return fmt.Errorf("%w: not the event owner", models.ErrForbidden)
	}

	kept, found := removeByFilename(event.Images, filename)
	if !found {
		return fmt.Errorf("%w: image %s", models.ErrNotFound, filename)
	}
	if err := es.eventsRepo.SetImages(ctx, id, kept); err != nil {
		return err
	}
	if err := es.images.Delete(ctx, helpers.EventsFolder+"/"+id.String(), filename); err != nil {
		es.logger.Warn("failed to delete event image asset", "event_id", id, "filename", filename, "error", err)
	}
	return nil
}
