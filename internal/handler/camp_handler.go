package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medcamp/internal/errors"
	"medcamp/internal/service"
)

// CampHandler serves submitters: submit a camp and follow its review.
type CampHandler struct {
	campService service.CampService
}

// NewCampHandler creates a new camp handler.
func NewCampHandler(campService service.CampService) *CampHandler {
	return &CampHandler{campService: campService}
}

// SubmitCampRequest is the submission form. Status is not accepted from clients.
type SubmitCampRequest struct {
	CampName        string      `json:"camp_name" validate:"required"`
	Description     string      `json:"description" validate:"required"`
	CampDate        string      `json:"camp_date" validate:"required,datetime=2006-01-02"`
	CampTime        string      `json:"camp_time" validate:"required,datetime=15:04"`
	Location        string      `json:"location" validate:"required"`
	Specialties     string      `json:"specialties" validate:"required"`
	Capacity        json.Number `json:"capacity" validate:"required" swaggertype:"string"`
	ContactInfo     string      `json:"contact_info" validate:"required"`
	AdditionalNotes string      `json:"additional_notes"`
}

// CampListResponse is a dashboard: stats over every listed camp plus the (filtered) camps.
type CampListResponse struct {
	Stats service.Stats       `json:"stats"`
	Camps []service.CampView `json:"camps"`
}

// Submit godoc
// @Summary Submit a medical camp for review
// @Tags camps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitCampRequest true "Camp details"
// @Success 201 {object} service.CampView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /camps [post]
func (h *CampHandler) Submit(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req SubmitCampRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	camp, err := h.campService.Submit(c.Request().Context(), identity, service.CampInput{
		CampName:        req.CampName,
		Description:     req.Description,
		CampDate:        req.CampDate,
		CampTime:        req.CampTime,
		Location:        req.Location,
		Specialties:     req.Specialties,
		Capacity:        req.Capacity.String(),
		ContactInfo:     req.ContactInfo,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, camp)
}

// ListMine godoc
// @Summary List own submissions
// @Tags camps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CampListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /camps [get]
func (h *CampHandler) ListMine(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	camps, err := h.campService.ListMine(c.Request().Context(), identity)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, CampListResponse{
		Stats: service.ComputeStats(camps),
		Camps: camps,
	})
}

// Get godoc
// @Summary Get one submission
// @Tags camps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Success 200 {object} service.CampView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /camps/{id} [get]
func (h *CampHandler) Get(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseCampID(c)
	if err != nil {
		return err
	}
	camp, err := h.campService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, camp)
}

func parseCampID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid camp id",
			Code:  "INVALID_ID",
		})
	}
	return id, nil
}
