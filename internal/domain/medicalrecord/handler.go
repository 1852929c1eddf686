package medicalrecord

import (
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
	api.POST("/medical-records", h.Create, auth.Require(auth.OpRecordCreate))
	api.GET("/medical-records", h.List, auth.Require(auth.OpRecordList))
	api.GET("/medical-records/:id", h.Get, auth.Require(auth.OpRecordRead))
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

	// An authoring doctor always signs their own records; the body's
	// doctor_id only matters for admin-entered records.
	if principal.Role == auth.RoleDoctor {
		profileID, err := h.svc.DoctorProfileFor(c.Request().Context(), principal.SubjectID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "doctor profile not found")
		}
		req.DoctorID = &profileID
	}

	rec, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

// List is patient-scoped: patients are pinned to their own chart, staff
// must say whose chart they are reading.
func (h *Handler) List(c echo.Context) error {
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	params := pagination.FromContext(c)
	filter := Filter{RecordType: c.QueryParam("record_type")}

	if principal.Role == auth.RolePatient {
		profileID, err := h.svc.PatientProfileFor(c.Request().Context(), principal.SubjectID)
		if err != nil {
			return c.JSON(http.StatusOK, pagination.NewResponse([]*MedicalRecord{}, 0, params.Limit, params.Offset))
		}
		filter.PatientID = &profileID
	} else {
		raw := c.QueryParam("patient_id")
		if raw == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		filter.PatientID = &id
	}

	recs, total, err := h.svc.List(c.Request().Context(), filter, params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, params.Limit, params.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
	}
	principal, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return auth.HTTPError(auth.ErrMissingToken)
	}
	owner, err := h.svc.PatientOwner(c.Request().Context(), rec.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// A patient reading another chart gets 403, not 404: the record's
	// existence is not secret, its contents are.
	if err := auth.EnforceOwnership(principal, auth.OpRecordRead, owner); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}
