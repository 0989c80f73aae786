package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// EntityKind names which image set a reconciliation targets.
type EntityKind string

const (
	KindEvent   EntityKind = "events"
	KindRequest EntityKind = "event-requests"
)

// ReconcileResult reports what a reconciliation actually achieved. Deletes
// are independent best-effort operations, so some can fail while the rest
// of the plan still goes through.
type ReconcileResult struct {
	Images        []string
	Deleted       []string
	DeleteFailed  map[string]error
	UploadedCount int
}

// ReconcileImages drives the entity's image set from its current server
// state to the desired one: images absent from kept are deleted, addedFiles
// are uploaded as one batch and appended after the kept ones. The final
// order is kept-then-added.
func (c *Client) ReconcileImages(ctx context.Context, kind EntityKind, id uuid.UUID, kept []string, addedFiles []string) (*ReconcileResult, error) {
	current, err := c.currentImages(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	keptSet := make(map[string]bool, len(kept))
	for _, u := range kept {
		keptSet[u] = true
	}

	result := &ReconcileResult{DeleteFailed: make(map[string]error)}
	for _, u := range current {
		if keptSet[u] {
			continue
		}
		filename := path.Base(mustPath(u))
		delPath := fmt.Sprintf("/api/v1/%s/%s/images/%s", kind, id, url.PathEscape(filename))
		if err := c.do(ctx, http.MethodDelete, delPath, nil, nil, nil); err != nil {
			result.DeleteFailed[u] = err
			continue
		}
		result.Deleted = append(result.Deleted, u)
	}

	if len(addedFiles) > 0 {
		var images []string
		upPath := fmt.Sprintf("/api/v1/%s/%s/images", kind, id)
		if err := c.upload(ctx, upPath, addedFiles, &images); err != nil {
			return result, err
		}
		result.UploadedCount = len(addedFiles)
		result.Images = images
	} else {
		result.Images, err = c.currentImages(ctx, kind, id)
		if err != nil {
			return result, err
		}
	}

	if len(result.DeleteFailed) > 0 {
		return result, fmt.Errorf("%d image deletions failed", len(result.DeleteFailed))
	}
	return result, nil
}

func (c *Client) currentImages(ctx context.Context, kind EntityKind, id uuid.UUID) ([]string, error) {
	switch kind {
	case KindEvent:
		var event api.Event
		if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+id.String(), nil, nil, &event); err != nil {
			return nil, err
		}
		return event.Images, nil
	case KindRequest:
		var req api.EventRequest
		if err := c.do(ctx, http.MethodGet, "/api/v1/event-requests/"+id.String(), nil, nil, &req); err != nil {
			return nil, err
		}
		return req.Images, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

// mustPath extracts the path portion of an image URL, falling back to the
// raw string for anything unparseable.
func mustPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
