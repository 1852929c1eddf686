package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// validDays guards the availability jsonb against free-form day names.
var validDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateAvailability(slots []AvailabilitySlot) error {
	for _, slot := range slots {
		if !validDays[slot.Day] {
			return fmt.Errorf("invalid availability day %q", slot.Day)
		}
		if slot.Start == "" || slot.End == "" {
			return fmt.Errorf("availability slot for %s needs start and end times", slot.Day)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Doctor, error) {
	if err := validateAvailability(req.Availability); err != nil {
		return nil, err
	}
	d := &Doctor{
		UserID:       req.UserID,
		FullName:     req.FullName,
		Specialty:    req.Specialty,
		Phone:        req.Phone,
		Bio:          req.Bio,
		Availability: req.Availability,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		d.FullName = req.FullName
	}
	if req.Specialty != nil {
		d.Specialty = req.Specialty
	}
	if req.Phone != nil {
		d.Phone = req.Phone
	}
	if req.Bio != nil {
		d.Bio = req.Bio
	}
	if req.Availability != nil {
		if err := validateAvailability(*req.Availability); err != nil {
			return nil, err
		}
		d.Availability = *req.Availability
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, specialty, limit, offset)
}

// OwnerUserID resolves the account that owns a doctor profile, uuid.Nil
// when the profile has no login.
func (s *Service) OwnerUserID(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error) {
	d, err := s.repo.GetByID(ctx, doctorID)
	if err != nil {
		return uuid.Nil, err
	}
	if d.UserID == nil {
		return uuid.Nil, nil
	}
	return *d.UserID, nil
}

// ProfileIDForUser resolves the doctor profile belonging to an account.
func (s *Service) ProfileIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	d, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return d.ID, nil
}
