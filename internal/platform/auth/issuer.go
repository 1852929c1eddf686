package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Identity is the credential-store record the issuer consumes. It carries
// only what credential verification needs; profile data lives elsewhere.
type Identity struct {
	ID           uuid.UUID
	Email        string
	Role         Role
	PasswordHash string
	Active       bool
}

// CredentialStore is the lookup capability the issuer depends on. The
// identity domain service implements it; implementations return
// ErrIdentityNotFound when no record matches.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// TokenPair is the login/refresh response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Issuer orchestrates credential verification and token minting. Logout is
// stateless: there is no revocation list, the client discards its tokens and
// a leaked access token stays valid until its exp. That trade-off is
// deliberate; the short access TTL bounds the exposure.
type Issuer struct {
	store  CredentialStore
	codec  *Codec
	logger zerolog.Logger
}

func NewIssuer(store CredentialStore, codec *Codec, logger zerolog.Logger) *Issuer {
	return &Issuer{store: store, codec: codec, logger: logger}
}

// Login verifies the credentials and mints a token pair. Unknown email,
// wrong password and disabled account all return ErrInvalidCredentials; the
// distinction is logged, never surfaced.
//
// The role is written into both tokens as a snapshot taken now. Access
// tokens are short-lived, so a stale role is bounded by the access TTL;
// Refresh is the correction point.
func (i *Issuer) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ident, err := i.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			i.logger.Info().Str("email", email).Msg("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(password, ident.PasswordHash) {
		i.logger.Info().Str("subject", ident.ID.String()).Msg("login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}
	if !ident.Active {
		i.logger.Info().Str("subject", ident.ID.String()).Msg("login rejected: account disabled")
		return nil, ErrInvalidCredentials
	}

	access, err := i.codec.Encode(ident.ID, ident.Role, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := i.codec.Encode(ident.ID, ident.Role, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	i.logger.Info().Str("subject", ident.ID.String()).Str("role", string(ident.Role)).Msg("login succeeded")
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Unlike Login, the
// identity is re-read here: a deleted or disabled account cannot refresh
// indefinitely, and a role change takes effect on the next refresh without
// forcing a re-login. This is intentionally a separate claim-population path
// from Login's snapshot.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := i.codec.Decode(refreshToken)
	if err != nil {
		i.logger.Info().Str("code", CodeFor(err)).Msg("refresh rejected: bad token")
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		i.logger.Info().Str("subject", claims.Subject).Msg("refresh rejected: access token presented")
		return nil, ErrWrongTokenType
	}
	subject, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	ident, err := i.store.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			i.logger.Info().Str("subject", subject.String()).Msg("refresh rejected: identity gone")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !ident.Active {
		i.logger.Info().Str("subject", subject.String()).Msg("refresh rejected: account disabled")
		return nil, ErrInvalidCredentials
	}

	access, err := i.codec.Encode(ident.ID, ident.Role, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := i.codec.Encode(ident.ID, ident.Role, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
