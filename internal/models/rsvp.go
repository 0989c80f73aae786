package models

import (
	"time"

	"github.com/google/uuid"
)

// Rsvp is one participant's attendance record for one event. The pair
// (event_id, user_id) is unique. A toggle-off flips Going to false but the
// record, and any rating it holds, stays: a rating reflects a past
// experience and outlives cancellation of future attendance.
type Rsvp struct {
	EventID   uuid.UUID `bson:"event_id" json:"event_id"`
	UserID    uuid.UUID `bson:"user_id" json:"user_id"`
	Going     bool      `bson:"going" json:"going"`
	Rating    *int      `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
