package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a clinical document attached to a patient. DoctorID
// is the authoring practitioner; records loaded from external systems
// may have none. Metadata holds type-specific payloads (lab values,
// dosages, attachment references) as free-form jsonb.
type MedicalRecord struct {
	ID          uuid.UUID              `json:"id"`
	PatientID   uuid.UUID              `json:"patient_id"`
	DoctorID    *uuid.UUID             `json:"doctor_id,omitempty"`
	RecordType  string                 `json:"record_type"`
	Title       string                 `json:"title"`
	Description *string                `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type CreateRequest struct {
	PatientID   uuid.UUID              `json:"patient_id"`
	DoctorID    *uuid.UUID             `json:"doctor_id"`
	RecordType  string                 `json:"record_type"`
	Title       string                 `json:"title"`
	Description *string                `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Filter narrows a record listing. Nil fields match everything.
type Filter struct {
	PatientID  *uuid.UUID
	RecordType string
}
