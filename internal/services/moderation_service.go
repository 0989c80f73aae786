package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/helpers"
	"github.com/mishgunpstlt/EventsApp/internal/models"
)

// ModerationService owns the submission state machine. Admin authors write
// events directly; everyone else produces a PENDING request that a
// moderator approves or rejects exactly once.
type ModerationService struct {
	eventsRepo   models.EventsRepo
	requestsRepo models.RequestsRepo
	images       ImageStore
	logger       *slog.Logger
}

func NewModerationService(eventsRepo models.EventsRepo, requestsRepo models.RequestsRepo, images ImageStore, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		eventsRepo:   eventsRepo,
		requestsRepo: requestsRepo,
		images:       images,
		logger:       logger,
	}
}

// CreateEvent is the admin publish path: validated payload straight to a
// public event, no moderation step.
func (ms *ModerationService) CreateEvent(ctx context.Context, payload models.EventPayload, principal *models.User) (*models.Event, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins publish events directly", models.ErrForbidden)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	event := &models.Event{
		ID:        uuid.New(),
		OwnerID:   principal.ID,
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	payload.Apply(event)

	if err := ms.eventsRepo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent is the admin/owner direct-edit path.
func (ms *ModerationService) UpdateEvent(ctx context.Context, id uuid.UUID, payload models.EventPayload, principal *models.User) (*models.Event, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	event, err := ms.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && event.OwnerID != principal.ID {
		return nil, fmt.Errorf("%w: not the event owner", models.ErrForbidden)
	}

	payload.Apply(event)
	if err := ms.eventsRepo.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// SubmitRequest files a non-privileged submission as a PENDING request.
// originalEventID present means an EDIT of that event, absent means CREATE.
func (ms *ModerationService) SubmitRequest(ctx context.Context, payload models.EventPayload, principal *models.User, originalEventID *uuid.UUID) (*models.EventRequest, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	reqType := models.RequestCreate
	if originalEventID != nil {
		reqType = models.RequestEdit
		if _, err := ms.eventsRepo.GetEventByID(ctx, *originalEventID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	req := &models.EventRequest{
		ID:              uuid.New(),
		AuthorID:        principal.ID,
		Type:            reqType,
		Status:          models.StatusPending,
		OriginalEventID: originalEventID,
		Payload:         payload,
		Images:          []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := ms.requestsRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve moves a PENDING request to APPROVED and materializes its effect:
// a CREATE request becomes a new event carrying the request's images; an
// EDIT request is applied onto the original event with the image sets
// reconciled. The compare-and-set on the status is the serialization
// point, so of two concurrent moderators exactly one wins and the other
// gets ErrInvalidState.
func (ms *ModerationService) Approve(ctx context.Context, requestID uuid.UUID) (*models.Event, error) {
	req, err := ms.requestsRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: request %s is %s", models.ErrInvalidState, req.ID, req.Status)
	}

	var original *models.Event
	if req.Type == models.RequestEdit {
		if req.OriginalEventID == nil {
			return nil, fmt.Errorf("%w: edit request %s has no original event", models.ErrInvalidState, req.ID)
		}
		original, err = ms.eventsRepo.GetEventByID(ctx, *req.OriginalEventID)
		if err != nil {
			// The request stays PENDING so a moderator can still reject it.
			return nil, err
		}
	}

	won, err := ms.requestsRepo.TransitionStatus(ctx, req.ID, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: request %s already decided", models.ErrInvalidState, req.ID)
	}

	if req.Type == models.RequestCreate {
		now := time.Now()
		event := &models.Event{
			ID:        uuid.New(),
			OwnerID:   req.AuthorID,
			Images:    req.Images,
			CreatedAt: now,
			UpdatedAt: now,
		}
		req.Payload.Apply(event)
		if err := ms.eventsRepo.CreateEvent(ctx, event); err != nil {
			ms.revertApproval(ctx, req.ID)
			return nil, err
		}
		return event, nil
	}

	req.Payload.Apply(original)
	if err := ms.eventsRepo.UpdateEvent(ctx, original); err != nil {
		ms.revertApproval(ctx, req.ID)
		return nil, err
	}

	final, removed := reconcileImages(original.Images, req.Images)
	for _, url := range removed {
		filename := helpers.FilenameFromURL(url)
		if err := ms.images.Delete(ctx, helpers.EventsFolder+"/"+original.ID.String(), filename); err != nil {
			// Best effort: a stray asset is reported, the edit stands.
			ms.logger.Warn("failed to delete replaced image", "event_id", original.ID, "filename", filename, "error", err)
		}
	}
	if err := ms.eventsRepo.SetImages(ctx, original.ID, final); err != nil {
		return nil, err
	}
	original.Images = final
	return original, nil
}

// revertApproval puts a request whose approval could not be materialized
// back to PENDING, so the moderator can retry instead of being stuck with a
// terminal status and no event.
func (ms *ModerationService) revertApproval(ctx context.Context, requestID uuid.UUID) {
	reverted, err := ms.requestsRepo.RevertStatus(ctx, requestID, models.StatusApproved)
	if err != nil || !reverted {
		ms.logger.Error("failed to revert approval after materialization failure",
			"request_id", requestID, "reverted", reverted, "error", err)
	}
}

// Reject is terminal and has no side effect beyond the status.
func (ms *ModerationService) Reject(ctx context.Context, requestID uuid.UUID) error {
	req, err := ms.requestsRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.StatusPending {
		return fmt.Errorf("%w: request %s is %s", models.ErrInvalidState, req.ID, req.Status)
	}

	won, err := ms.requestsRepo.TransitionStatus(ctx, req.ID, models.StatusRejected)
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w: request %s already decided", models.ErrInvalidState, req.ID)
	}
	return nil
}

func (ms *ModerationService) ListPending(ctx context.Context) ([]*models.EventRequest, error) {
	return ms.requestsRepo.ListPendingRequests(ctx)
}

func (ms *ModerationService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.EventRequest, error) {
	return ms.requestsRepo.ListRequestsByAuthor(ctx, authorID)
}

func (ms *ModerationService) GetRequest(ctx context.Context, id uuid.UUID, principal *models.User) (*models.EventRequest, error) {
	req, err := ms.requestsRepo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && req.AuthorID != principal.ID {
		return nil, fmt.Errorf("%w: not the request author", models.ErrForbidden)
	}
	return req, nil
}

// AttachRequestImages uploads a batch for a pending request and appends the
// assigned URLs to its ordered image list.
func (ms *ModerationService) AttachRequestImages(ctx context.Context, reqID uuid.UUID, filePaths []string, principal *models.User) ([]string, error) {
	req, err := ms.requestsRepo.GetRequestByID(ctx, reqID)
	if err != nil {
		return nil, err
	}
	if req.AuthorID != principal.ID {
		return nil, fmt.Errorf("%w: not the request author", models.ErrForbidden)
	}
	if req.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: request %s is %s", models.ErrInvalidState, req.ID, req.Status)
	}

	urls, err := ms.images.Upload(ctx, helpers.RequestsFolder+"/"+reqID.String(), filePaths)
	if err != nil {
		return nil, err
	}
	all := append(req.Images, urls...)
	if err := ms.requestsRepo.SetRequestImages(ctx, reqID, all); err != nil {
		return nil, err
	}
	return all, nil
}

// RemoveRequestImage deletes one image from a pending request by filename.
func (ms *ModerationService) RemoveRequestImage(ctx context.Context, reqID uuid.UUID, filename string, principal *models.User) error {
	req, err := ms.requestsRepo.GetRequestByID(ctx, reqID)
	if err != nil {
		return err
	}
	if req.AuthorID != principal.ID {
		return fmt.Errorf("%w: not the request author", models.ErrForbidden)
	}
	if req.Status != models.StatusPending {
		return fmt.Errorf("%w: request %s is %s", models.ErrInvalidState, req.ID, req.Status)
	}

	kept, found := removeByFilename(req.Images, filename)
	if !found {
		return fmt.Errorf("%w: image %s", models.ErrNotFound, filename)
	}
	if err := ms.requestsRepo.SetRequestImages(ctx, reqID, kept); err != nil {
		return err
	}
	if err := ms.images.Delete(ctx, helpers.RequestsFolder+"/"+reqID.String(), filename); err != nil {
		ms.logger.Warn("failed to delete request image asset", "request_id", reqID, "filename", filename, "error", err)
	}
	return nil
}

// reconcileImages keeps the current images still present in the requested
// set (in their prior relative order), appends the newly requested ones (in
// request order), and reports what was dropped.
func reconcileImages(current, requested []string) (final, removed []string) {
	requestedSet := make(map[string]bool, len(requested))
	for _, url := range requested {
		requestedSet[url] = true
	}
	currentSet := make(map[string]bool, len(current))
	for _, url := range current {
		currentSet[url] = true
	}

	for _, url := range current {
		if requestedSet[url] {
			final = append(final, url)
		} else {
			removed = append(removed, url)
		}
	}
	for _, url := range requested {
		if !currentSet[url] {
			final = append(final, url)
		}
	}
	return final, removed
}

func removeByFilename(urls []string, filename string) (kept []string, found bool) {
	for _, url := range urls {
		if helpers.FilenameFromURL(url) == filename {
			found = true
			continue
		}
		kept = append(kept, url)
	}
	return kept, found
}
