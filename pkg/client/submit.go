package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// SubmitOutcome is either a published event (privileged path) or a pending
// request (moderated path), never both.
type SubmitOutcome struct {
	Event   *api.Event
	Request *api.EventRequest
}

// Published reports whether the submission went live immediately.
func (o *SubmitOutcome) Published() bool {
	return o.Event != nil
}

type requestBody struct {
	api.EventPayload
	OriginalEventID *uuid.UUID `json:"original_event_id,omitempty"`
}

// SubmitEvent routes a submission by the session's privilege: admins write
// events directly, everyone else files a moderation request. originalID nil
// means a new event, otherwise an edit of that event. The payload is
// validated locally first so obvious mistakes never leave the process.
func (s *Session) SubmitEvent(ctx context.Context, payload api.EventPayload, originalID *uuid.UUID) (*SubmitOutcome, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	if s.IsAdmin() {
		var event api.Event
		if originalID != nil {
			if err := s.client.do(ctx, http.MethodPut, "/api/v1/events/"+originalID.String(), nil, payload, &event); err != nil {
				return nil, err
			}
		} else {
			if err := s.client.do(ctx, http.MethodPost, "/api/v1/events", nil, payload, &event); err != nil {
				return nil, err
			}
		}
		return &SubmitOutcome{Event: &event}, nil
	}

	var req api.EventRequest
	body := requestBody{EventPayload: payload, OriginalEventID: originalID}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/event-requests", nil, body, &req); err != nil {
		return nil, err
	}
	return &SubmitOutcome{Request: &req}, nil
}

// MyRequests lists the caller's own submissions with their statuses.
func (s *Session) MyRequests(ctx context.Context) ([]*api.EventRequest, error) {
	var requests []*api.EventRequest
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/event-requests/my", nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// MyEvents groups the caller's created and joined events.
func (s *Session) MyEvents(ctx context.Context) (*api.MyEvents, error) {
	var my api.MyEvents
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/events/my/all", nil, nil, &my); err != nil {
		return nil, err
	}
	return &my, nil
}
