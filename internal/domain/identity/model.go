package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/caretrack/caretrack/internal/platform/auth"
)

// User is an authentication account. Role-specific data (patient and
// doctor profiles) lives in the corresponding domain packages and is
// linked back here by user_id.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     *string   `json:"full_name,omitempty"`
	Role         auth.Role `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the public signup payload. The role is never
// client-controlled: self-registration always produces a patient.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

// LoginRequest accepts either a JSON body or an OAuth2-style password
// grant form (username = email).
type LoginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// UpdateMeRequest carries the self-service mutable fields. Pointers
// distinguish "leave unchanged" from an explicit value.
type UpdateMeRequest struct {
	FullName *string `json:"full_name"`
	Active   *bool   `json:"is_active"`
}
