package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const principalKey contextKey = "auth_principal"

// Principal is the verified (subject, role) pair the guard hands to route
// handlers. Handlers must not re-derive identity from raw claims; this is
// the single source of truth after authentication.
type Principal struct {
	SubjectID uuid.UUID
	Role      Role
}

// Authenticate parses and verifies the bearer token and attaches the
// Principal to the request context. Missing token, decode failure, or a
// refresh token presented as a bearer credential all end the request with
// 401; the sub-case lands in the log and the body code only.
func Authenticate(codec *Codec, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return HTTPError(ErrMissingToken)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return HTTPError(ErrMalformedToken)
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				logger.Info().
					Str("path", c.Request().URL.Path).
					Str("code", CodeFor(err)).
					Msg("authentication failed")
				return HTTPError(err)
			}
			if claims.TokenType != TokenTypeAccess {
				logger.Info().
					Str("path", c.Request().URL.Path).
					Str("subject", claims.Subject).
					Msg("refresh token presented as access credential")
				return HTTPError(ErrWrongTokenType)
			}

			subject, err := claims.SubjectID()
			if err != nil {
				return HTTPError(err)
			}

			p := Principal{SubjectID: subject, Role: claims.Role}
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// WithPrincipal returns a context carrying the verified principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Require enforces the role-level policy verdict for op. Deny ends the
// request with 403. Allow and AllowIfOwner both proceed; for AllowIfOwner
// the handler resolves the resource's owner id(s) from the database and
// completes the check with EnforceOwnership.
func Require(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFromContext(c.Request().Context())
			if !ok {
				return HTTPError(ErrMissingToken)
			}
			if PolicyFor(op, p.Role) == Deny {
				return HTTPError(ErrForbidden)
			}
			return next(c)
		}
	}
}

// EnforceOwnership is the row-level half of an AllowIfOwner verdict. The
// caller supplies the owning identity id(s) it resolved for the resource;
// the check passes if the subject matches any of them. Admins bypass
// ownership everywhere. A mismatch is 403, never 404: permission denial and
// nonexistence are reported through the same taxonomy.
func EnforceOwnership(p Principal, op Operation, ownerIDs ...uuid.UUID) error {
	if p.Role == RoleAdmin {
		return nil
	}
	if PolicyFor(op, p.Role) != AllowIfOwner {
		return nil
	}
	for _, id := range ownerIDs {
		if id != uuid.Nil && id == p.SubjectID {
			return nil
		}
	}
	return HTTPError(ErrForbidden)
}
