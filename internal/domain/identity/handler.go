package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *auth.Issuer
}

func NewHandler(svc *Service, issuer *auth.Issuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterRoutes wires the public auth endpoints onto public and the
// token-protected ones onto api.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/refresh", h.Refresh)

	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/whoami", h.Whoami)

	api.GET("/users/me", h.Me, auth.Require(auth.OpUserSelf))
	api.PATCH("/users/me", h.UpdateMe, auth.Require(auth.OpUserSelf))
	api.GET("/users", h.ListUsers, auth.Require(auth.OpUserList))
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.issuer.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return auth.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.issuer.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return auth.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout is a client-side operation: tokens are stateless and simply
// expire. The endpoint exists so clients have a uniform call to make.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"detail": "logged out"})
}

func (h *Handler) Whoami(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"id":   p.SubjectID.String(),
		"role": string(p.Role),
	})
}

func (h *Handler) Me(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	user, err := h.svc.Get(c.Request().Context(), p.SubjectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.svc.UpdateSelf(c.Request().Context(), p.SubjectID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c echo.Context) error {
	params := pagination.FromContext(c)
	users, total, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, params.Limit, params.Offset))
}
