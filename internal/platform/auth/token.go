package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from long-lived refresh
// tokens inside the signed claims, so one can never be replayed as the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the signed payload of every token this server issues.
type Claims struct {
	jwt.RegisteredClaims
	Role      Role      `json:"role"`
	TokenType TokenType `json:"token_type"`
}

// SubjectID parses the subject claim as an identity id.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrMalformedToken
	}
	return id, nil
}

// CodecConfig carries the signing settings the codec needs. Built once from
// the process config and never mutated afterwards.
type CodecConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Codec signs and verifies the compact bearer tokens. HS256 only; a token
// presenting any other algorithm is rejected at parse time, which closes the
// algorithm-confusion hole where an attacker picks the verification method.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(cfg CodecConfig) *Codec {
	return &Codec{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// TTL returns the configured lifetime for the given token type.
func (c *Codec) TTL(tokenType TokenType) time.Duration {
	if tokenType == TokenTypeRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Encode mints a signed token for the subject with the type's configured
// lifetime. iat is now, exp is now plus the TTL.
func (c *Codec) Encode(subjectID uuid.UUID, role Role, tokenType TokenType) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(tokenType))),
		},
		Role:      role,
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature, algorithm and expiry, and returns the claims.
// Failures come back as exactly one of ErrExpiredToken, ErrInvalidSignature
// or ErrMalformedToken; callers never inspect jwt library errors directly.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrMalformedToken
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
