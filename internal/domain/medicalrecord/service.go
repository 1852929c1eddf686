package medicalrecord

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PatientDirectory resolves patient profiles for ownership checks.
type PatientDirectory interface {
	OwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
	ProfileIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// DoctorDirectory resolves the authoring doctor's profile.
type DoctorDirectory interface {
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

func (s *Service) Create(ctx context.Context, req CreateRequest) (*MedicalRecord, error) {
	if req.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if req.RecordType == "" {
		return nil, fmt.Errorf("record_type is required")
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if _, err := s.patients.OwnerUserID(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("unknown patient %s", req.PatientID)
	}

	rec := &MedicalRecord{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		RecordType:  req.RecordType,
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, rec.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
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
