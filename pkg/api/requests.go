package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

type RequestType string

const (
	RequestCreate RequestType = "CREATE"
	RequestEdit   RequestType = "EDIT"
)

// EventRequest is a non-privileged user's proposed creation or edit, held
// until a moderator decides. APPROVED and REJECTED are terminal.
type EventRequest struct {
	ID              uuid.UUID     `bson:"_id" json:"id"`
	AuthorID        uuid.UUID     `bson:"author_id" json:"author_id"`
	Type            RequestType   `bson:"type" json:"type"`
	Status          RequestStatus `bson:"status" json:"status"`
	OriginalEventID *uuid.UUID    `bson:"original_event_id,omitempty" json:"original_event_id,omitempty"`
	Payload         EventPayload  `bson:"payload" json:"payload"`
	Images          []string      `bson:"images" json:"images"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// CanTransition reports whether the status edge is legal. Only
// PENDING -> APPROVED and PENDING -> REJECTED exist.
func CanTransition(from, to RequestStatus) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// Transition moves the request along a legal edge or fails with
// ErrInvalidState, so a double approve surfaces instead of silently
// rewriting a terminal status.
func (r *EventRequest) Transition(to RequestStatus) error {
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("%w: request %s is %s", ErrInvalidState, r.ID, r.Status)
	}
	r.Status = to
	return nil
}
