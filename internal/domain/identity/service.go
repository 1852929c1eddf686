package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
)

// PatientRegistrar creates the patient profile linked to a freshly
// registered account. Implemented by the patient service.
type PatientRegistrar interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, fullName *string) error
}

type Service struct {
	repo       Repository
	patients   PatientRegistrar
	bcryptCost int
	logger     zerolog.Logger
}

func NewService(repo Repository, patients PatientRegistrar, bcryptCost int, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		patients:   patients,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "identity").Logger(),
	}
}

// Register creates a patient account. Self-service signup never grants
// any other role: doctors and admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        email,
		FullName:     req.FullName,
		Role:         auth.RolePatient,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.patients.CreateForUser(ctx, user.ID, user.FullName); err != nil {
		// The account exists but the profile insert failed; surface the
		// error rather than leaving the caller guessing.
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).
			Msg("patient profile creation failed after signup")
		return nil, fmt.Errorf("create patient profile: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, query, limit, offset)
}

// UpdateSelf applies the user-editable fields only. Email, role and
// password stay untouched here.
func (s *Service) UpdateSelf(ctx context.Context, id uuid.UUID, req UpdateMeRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail implements auth.CredentialStore.
func (s *Service) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}
	return toIdentity(user), nil
}

// FindByID implements auth.CredentialStore.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}
	return toIdentity(user), nil
}

func toIdentity(u *User) *auth.Identity {
	return &auth.Identity{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
	}
}
