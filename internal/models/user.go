package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username" validate:"required,min=3,max=64"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	FullName     string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	Gender       string    `bson:"gender,omitempty" json:"gender,omitempty"`
	BirthDate    string    `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileComplete is derived on every load, never stored.
func (u *User) ProfileComplete() bool {
	return strings.TrimSpace(u.FullName) != "" && strings.TrimSpace(u.Email) != ""
}

func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		Email:           u.Email,
		FullName:        u.FullName,
		City:            u.City,
		Gender:          u.Gender,
		BirthDate:       u.BirthDate,
		ProfileComplete: u.ProfileComplete(),
	}
}
