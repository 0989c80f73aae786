package api

import "github.com/google/uuid"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Profile is the /users/me representation.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Role            Role      `json:"role"`
	Email           string    `json:"email,omitempty"`
	FullName        string    `json:"full_name,omitempty"`
	City            string    `json:"city,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	BirthDate       string    `json:"birth_date,omitempty"`
	ProfileComplete bool      `json:"profile_complete"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FullName  string `json:"full_name"`
	City      string `json:"city"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
}

// RsvpStatus is the authoritative attendance state returned after every
// read or mutation; callers reconcile their view from it instead of
// guessing.
type RsvpStatus struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	Going         *bool   `json:"going,omitempty"`
	SelfRating    *int    `json:"self_rating,omitempty"`
}
