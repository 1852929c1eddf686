package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes carried in response bodies. Clients branch on Code; the
// Message is for humans and may change.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingToken       = "missing_token"
	CodeMalformedToken     = "malformed_token"
	CodeExpiredToken       = "expired_token"
	CodeInvalidSignature   = "invalid_signature"
	CodeWrongTokenType     = "wrong_token_type"
	CodeForbidden          = "forbidden"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and disabled
	// accounts alike, so the login endpoint cannot be used to enumerate
	// registered emails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMissingToken     = errors.New("missing bearer token")
	ErrMalformedToken   = errors.New("malformed token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrForbidden        = errors.New("forbidden")
)

// ErrIdentityNotFound is returned by CredentialStore implementations when no
// identity matches the lookup. The issuer translates it to
// ErrInvalidCredentials before it can reach a client.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrorBody is the JSON payload attached to auth failures.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPError maps a core auth error onto the echo error returned to the
// client. Every authentication-family error becomes 401 and every
// authorization-family error becomes 403, regardless of sub-case; the
// sub-case is exposed only through the body code (and logs).
func HTTPError(err error) *echo.HTTPError {
	status := http.StatusUnauthorized
	if errors.Is(err, ErrForbidden) {
		status = http.StatusForbidden
	}
	return echo.NewHTTPError(status, ErrorBody{Code: CodeFor(err), Message: err.Error()})
}

// CodeFor returns the machine-readable code for a core auth error.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrMissingToken):
		return CodeMissingToken
	case errors.Is(err, ErrExpiredToken):
		return CodeExpiredToken
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrWrongTokenType):
		return CodeWrongTokenType
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeMalformedToken
	}
}
