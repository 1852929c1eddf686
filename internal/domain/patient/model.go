package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a demographic profile. UserID links the profile to its
// login account; profiles created by staff before the person signs up
// have no account yet, so the link is nullable.
type Patient struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	FullName    *string    `json:"full_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	UserID      *uuid.UUID `json:"user_id"`
	FullName    *string    `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
}

type UpdateRequest struct {
	FullName    *string    `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
}
