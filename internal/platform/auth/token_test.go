package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testCodec() *Codec {
	return NewCodec(CodecConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec()
	subject := uuid.New()

	for _, tokenType := range []TokenType{TokenTypeAccess, TokenTypeRefresh} {
		token, err := codec.Encode(subject, RoleDoctor, tokenType)
		if err != nil {
			t.Fatalf("Encode(%s): %v", tokenType, err)
		}

		claims, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("Decode(%s): %v", tokenType, err)
		}
		got, err := claims.SubjectID()
		if err != nil {
			t.Fatalf("SubjectID: %v", err)
		}
		if got != subject {
			t.Errorf("subject = %s, want %s", got, subject)
		}
		if claims.Role != RoleDoctor {
			t.Errorf("role = %s, want doctor", claims.Role)
		}
		if claims.TokenType != tokenType {
			t.Errorf("token_type = %s, want %s", claims.TokenType, tokenType)
		}
		if claims.IssuedAt == nil || claims.ExpiresAt == nil {
			t.Fatal("iat/exp not populated")
		}
		if want := codec.TTL(tokenType); claims.ExpiresAt.Sub(claims.IssuedAt.Time) != want {
			t.Errorf("lifetime = %s, want %s", claims.ExpiresAt.Sub(claims.IssuedAt.Time), want)
		}
	}
}

func TestCodec_ZeroTTLIsImmediatelyExpired(t *testing.T) {
	codec := NewCodec(CodecConfig{Secret: "test-secret", AccessTokenTTL: 0, RefreshTokenTTL: 0})

	token, err := codec.Encode(uuid.New(), RolePatient, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = codec.Decode(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Decode = %v, want ErrExpiredToken", err)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	a := NewCodec(CodecConfig{Secret: "secret-a", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	b := NewCodec(CodecConfig{Secret: "secret-b", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})

	token, err := a.Encode(uuid.New(), RoleAdmin, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = b.Decode(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Decode under other secret = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_RejectsForeignAlgorithm(t *testing.T) {
	codec := testCodec()

	// An unsigned token claiming alg=none must not be accepted even though
	// its payload parses.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:      RoleAdmin,
		TokenType: TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing alg=none token: %v", err)
	}

	if _, err := codec.Decode(token); err == nil {
		t.Fatal("alg=none token accepted")
	} else if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Decode = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	codec := testCodec()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "hello"},
		{"two segments", "aaaa.bbbb"},
		{"garbage segments", "aaaa.bbbb.cccc"},
	}

	for _, tt := range tests {
		_, err := codec.Decode(tt.token)
		if !errors.Is(err, ErrMalformedToken) {
			t.Errorf("%s: Decode = %v, want ErrMalformedToken", tt.name, err)
		}
	}
}

func TestCodec_RejectsUnknownRoleAndType(t *testing.T) {
	codec := testCodec()

	mint := func(role Role, tokenType TokenType) string {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role:      role,
			TokenType: tokenType,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		return token
	}

	if _, err := codec.Decode(mint("superuser", TokenTypeAccess)); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("unknown role: Decode = %v, want ErrMalformedToken", err)
	}
	if _, err := codec.Decode(mint(RoleDoctor, "session")); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("unknown token type: Decode = %v, want ErrMalformedToken", err)
	}
}
