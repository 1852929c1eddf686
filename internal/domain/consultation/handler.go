package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/consultations", h.Create, auth.Require(auth.OpConsultationCreate))
	api.GET("/consultations", h.List, auth.Require(auth.OpConsultationList))
	api.GET("/consultations/:id", h.Get, auth.Require(auth.OpConsultationRead))
	api.PATCH("/consultations/:id", h.Update, auth.Require(auth.OpConsultationUpdate))
	api.DELETE("/consultations/:id", h.Delete, auth.Require(auth.OpConsultationDelete))
}

func (h *Handler) Create(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}

	// Patients may only book for their own profile; admins book for anyone.
	owner, err := h.svc.PatientOwner(c.Request().Context(), req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown patient")
	}
	if err := auth.EnforceOwnership(principal, auth.OpConsultationCreate, owner); err != nil {
		return err
	}

	con, err := h.svc.Schedule(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, con)
}

// List scopes results by role: patients see their own bookings, doctors
// their own schedule, admins everything (optionally filtered).
func (h *Handler) List(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	params := pagination.FromContext(c)
	filter := Filter{Status: Status(c.QueryParam("status"))}

	switch principal.Role {
	case auth.RolePatient:
		profileID, err := h.svc.PatientProfileFor(c.Request().Context(), principal.SubjectID)
		if err != nil {
			// An account with no profile has no consultations.
			return c.JSON(http.StatusOK, pagination.NewResponse([]*Consultation{}, 0, params.Limit, params.Offset))
		}
		filter.PatientID = &profileID
	case auth.RoleDoctor:
		profileID, err := h.svc.DoctorProfileFor(c.Request().Context(), principal.SubjectID)
		if err != nil {
			return c.JSON(http.StatusOK, pagination.NewResponse([]*Consultation{}, 0, params.Limit, params.Offset))
		}
		filter.DoctorID = &profileID
	default:
		if raw := c.QueryParam("patient_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
			}
			filter.PatientID = &id
		}
		if raw := c.QueryParam("doctor_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
			}
			filter.DoctorID = &id
		}
	}

	cons, total, err := h.svc.List(c.Request().Context(), filter, params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(cons, total, params.Limit, params.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	con, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
	}
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	patientOwner, doctorOwner, err := h.svc.Owners(c.Request().Context(), con)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Either participant may read; a foreign consultation is forbidden,
	// not hidden.
	if err := auth.EnforceOwnership(principal, auth.OpConsultationRead, patientOwner, doctorOwner); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	con, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
	}
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	_, doctorOwner, err := h.svc.Owners(c.Request().Context(), con)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Only the treating doctor (or an admin) may change outcome or notes.
	if err := auth.EnforceOwnership(principal, auth.OpConsultationUpdate, doctorOwner); err != nil {
		return err
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
