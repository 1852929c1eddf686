package patient

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	p := &Patient{
		UserID:      req.UserID,
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

// CreateForUser creates the minimal profile linked to a new account.
// Called by the identity service during signup.
func (s *Service) CreateForUser(ctx context.Context, userID uuid.UUID, fullName *string) error {
	return s.repo.Create(ctx, &Patient{UserID: &userID, FullName: fullName})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		p.FullName = req.FullName
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		p.Gender = req.Gender
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, name, limit, offset)
}

// OwnerUserID resolves the account that owns a patient profile.
// Profiles without an account have no owner, reported as uuid.Nil.
func (s *Service) OwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return uuid.Nil, err
	}
	if p.UserID == nil {
		return uuid.Nil, nil
	}
	return *p.UserID, nil
}

// ProfileIDForUser resolves the patient profile belonging to an account.
func (s *Service) ProfileIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}
