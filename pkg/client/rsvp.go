package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// RsvpStatus reads the event's attendance state. With a logged-in session
// it includes the caller's going flag and rating.
func (c *Client) RsvpStatus(ctx context.Context, eventID uuid.UUID) (*api.RsvpStatus, error) {
	var status api.RsvpStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID.String()+"/rsvp", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ToggleRsvp flips attendance and returns the authoritative state. A full
// event surfaces as ErrCapacityExceeded; the caller's view should be
// reconciled from the returned status or, on error, refetched, never
// guessed.
func (c *Client) ToggleRsvp(ctx context.Context, eventID uuid.UUID) (*api.RsvpStatus, error) {
	var status api.RsvpStatus
	if err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID.String()+"/rsvp/toggle", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RateEvent submits or replaces the caller's 1..5 rating.
func (c *Client) RateEvent(ctx context.Context, eventID uuid.UUID, rating int) (*api.RsvpStatus, error) {
	query := url.Values{"rating": []string{strconv.Itoa(rating)}}
	var status api.RsvpStatus
	if err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID.String()+"/rsvp/rate", query, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, eventID uuid.UUID) (*api.Event, error) {
	var event api.Event
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID.String(), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event the caller owns (or any event for admins).
func (c *Client) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/events/"+eventID.String(), nil, nil, nil)
}
