package doctor

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is one recurring weekly consultation window.
// Stored as jsonb alongside the profile.
type AvailabilitySlot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Doctor is a practitioner profile. Like patients, the account link is
// nullable: directory entries can exist before the doctor has a login.
type Doctor struct {
	ID           uuid.UUID          `json:"id"`
	UserID       *uuid.UUID         `json:"user_id,omitempty"`
	FullName     *string            `json:"full_name,omitempty"`
	Specialty    *string            `json:"specialty,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	Bio          *string            `json:"bio,omitempty"`
	Availability []AvailabilitySlot `json:"availability"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type CreateRequest struct {
	UserID       *uuid.UUID         `json:"user_id"`
	FullName     *string            `json:"full_name"`
	Specialty    *string            `json:"specialty"`
	Phone        *string            `json:"phone"`
	Bio          *string            `json:"bio"`
	Availability []AvailabilitySlot `json:"availability"`
}

type UpdateRequest struct {
	FullName     *string             `json:"full_name"`
	Specialty    *string             `json:"specialty"`
	Phone        *string             `json:"phone"`
	Bio          *string             `json:"bio"`
	Availability *[]AvailabilitySlot `json:"availability"`
}
