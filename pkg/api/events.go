// Package api holds the wire types shared between the server and the
// client SDK. Everything here is what goes over HTTP; storage-only types
// stay in the server's internal packages.
package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventFormat string

const (
	FormatOnline  EventFormat = "online"
	FormatOffline EventFormat = "offline"
)

var Categories = []string{"IT", "Medicine", "Marketing", "Education", "Business", "Other"}

var Levels = []string{"Beginner", "Advanced", "All"}

// Event is a published, publicly visible event.
type Event struct {
	ID          uuid.UUID   `bson:"_id" json:"id"`
	OwnerID     uuid.UUID   `bson:"owner_id" json:"owner_id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Date        time.Time   `bson:"date" json:"date"`
	Category    string      `bson:"category" json:"category"`
	Format      EventFormat `bson:"format" json:"format"`
	Level       string      `bson:"level" json:"level"`
	Capacity    int         `bson:"capacity" json:"capacity"`

	// Location fields, set only for offline events.
	Address   string   `bson:"address,omitempty" json:"address,omitempty"`
	City      string   `bson:"city,omitempty" json:"city,omitempty"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	// Set only for online events.
	ConferenceLink string `bson:"conference_link,omitempty" json:"conference_link,omitempty"`

	// Attendance and rating aggregates, mutated only through the rsvp repo.
	GoingCount  int `bson:"going_count" json:"going_count"`
	RatingSum   int `bson:"rating_sum" json:"-"`
	RatingCount int `bson:"rating_count" json:"rating_count"`

	Images []string `bson:"images" json:"images"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RatingAvg is the organizer rating shown on the event card.
func (e *Event) RatingAvg() float64 {
	if e.RatingCount == 0 {
		return 0
	}
	return float64(e.RatingSum) / float64(e.RatingCount)
}

// EventPayload is the submission shape shared by direct (admin) writes and
// moderation requests.
type EventPayload struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Date           time.Time   `json:"date"`
	Category       string      `json:"category"`
	Format         EventFormat `json:"format"`
	Level          string      `json:"level"`
	Capacity       int         `json:"capacity"`
	Address        string      `json:"address,omitempty"`
	City           string      `json:"city,omitempty"`
	Latitude       *float64    `json:"latitude,omitempty"`
	Longitude      *float64    `json:"longitude,omitempty"`
	ConferenceLink string      `json:"conference_link,omitempty"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Validate checks every invariant before any write happens. The format
// switch also clears the fields the selected format does not use, the same
// way the original submission path does.
func (p *EventPayload) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)

	if p.Title == "" {
		return NewValidationError("title", "must not be empty")
	}
	if p.Description == "" {
		return NewValidationError("description", "must not be empty")
	}
	if p.Date.IsZero() {
		return NewValidationError("date", "must be a valid date")
	}
	if !contains(Categories, p.Category) {
		return NewValidationError("category", "unknown category")
	}
	if !contains(Levels, p.Level) {
		return NewValidationError("level", "unknown level")
	}
	if p.Capacity < 1 {
		return NewValidationError("capacity", "must be at least 1")
	}

	switch p.Format {
	case FormatOffline:
		if strings.TrimSpace(p.ConferenceLink) != "" {
			return NewValidationError("conference_link", "must be empty for offline events")
		}
		if strings.TrimSpace(p.Address) == "" {
			return NewValidationError("address", "required for offline events")
		}
		if strings.TrimSpace(p.City) == "" {
			return NewValidationError("city", "required for offline events")
		}
		p.ConferenceLink = ""
	case FormatOnline:
		if strings.TrimSpace(p.ConferenceLink) == "" {
			return NewValidationError("conference_link", "required for online events")
		}
		if strings.TrimSpace(p.Address) != "" || strings.TrimSpace(p.City) != "" {
			return NewValidationError("address", "must be empty for online events")
		}
		p.Address = ""
		p.City = ""
		p.Latitude = nil
		p.Longitude = nil
	default:
		return NewValidationError("format", "must be online or offline")
	}

	return nil
}

// Apply copies the payload onto an event, respecting the format exclusivity
// invariant. Aggregates and images are left untouched.
func (p *EventPayload) Apply(e *Event) {
	e.Title = p.Title
	e.Description = p.Description
	e.Date = p.Date
	e.Category = p.Category
	e.Format = p.Format
	e.Level = p.Level
	e.Capacity = p.Capacity
	if p.Format == FormatOffline {
		e.Address = p.Address
		e.City = p.City
		e.Latitude = p.Latitude
		e.Longitude = p.Longitude
		e.ConferenceLink = ""
	} else {
		e.ConferenceLink = p.ConferenceLink
		e.Address = ""
		e.City = ""
		e.Latitude = nil
		e.Longitude = nil
	}
}

// MyEvents groups the caller's created and joined events.
type MyEvents struct {
	CreatedEvents []*Event `json:"created_events"`
	JoinedEvents  []*Event `json:"joined_events"`
}
