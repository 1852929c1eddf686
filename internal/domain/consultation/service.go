package consultation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PatientDirectory resolves patient profiles for booking validation and
// ownership checks. Implemented by the patient service.
type PatientDirectory interface {
	OwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
	ProfileIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// DoctorDirectory is the doctor-side counterpart of PatientDirectory.
type DoctorDirectory interface {
	OwnerUserID(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error)
	ProfileIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	doctors  DoctorDirectory
}

func NewService(repo Repository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors}
}

// Schedule books a consultation. Both referenced profiles must exist;
// a dangling reference is a 400-class error, not a constraint violation
// surfacing from the database.
func (s *Service) Schedule(ctx context.Context, req CreateRequest) (*Consultation, error) {
	if req.PatientID == uuid.Nil || req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("patient_id and doctor_id are required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("scheduled_at is required")
	}
	if _, err := s.patients.OwnerUserID(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("unknown patient %s", req.PatientID)
	}
	if _, err := s.doctors.OwnerUserID(ctx, req.DoctorID); err != nil {
		return nil, fmt.Errorf("unknown doctor %s", req.DoctorID)
	}

	con := &Consultation{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Status:      StatusScheduled,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, con); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, con.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Consultation, error) {
	con, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ScheduledAt != nil {
		con.ScheduledAt = *req.ScheduledAt
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		con.Status = *req.Status
	}
	if req.Notes != nil {
		con.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, con); err != nil {
		return nil, err
	}
	return con, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// Owners returns the account ids behind a consultation's patient and
// doctor, for ownership enforcement. Unlinked profiles yield uuid.Nil.
func (s *Service) Owners(ctx context.Context, con *Consultation) (patientOwner, doctorOwner uuid.UUID, err error) {
	patientOwner, err = s.patients.OwnerUserID(ctx, con.PatientID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	doctorOwner, err = s.doctors.OwnerUserID(ctx, con.DoctorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return patientOwner, doctorOwner, nil
}

// PatientOwner resolves the account behind a patient profile.
func (s *Service) PatientOwner(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error) {
	return s.patients.OwnerUserID(ctx, patientID)
}

// PatientProfileFor resolves the caller's patient profile.
func (s *Service) PatientProfileFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.patients.ProfileIDForUser(ctx, userID)
}

// DoctorProfileFor resolves the caller's doctor profile.
func (s *Service) DoctorProfileFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.doctors.ProfileIDForUser(ctx, userID)
}
