package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medcamp/internal/model"
	"medcamp/internal/service"
)

// AdminHandler serves the review dashboard.
type AdminHandler struct {
	campService service.CampService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(campService service.CampService) *AdminHandler {
	return &AdminHandler{campService: campService}
}

// UpdateStatusRequest carries a review decision.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required" enums:"approved,rejected"`
}

// ListCamps godoc
// @Summary List every submission for review
// @Description Stats always count the full list; camps are narrowed by the status filter, newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(all, pending, approved, rejected)
// @Success 200 {object} CampListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/camps [get]
func (h *AdminHandler) ListCamps(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	all, err := h.campService.ListAll(c.Request().Context(), identity)
	if err != nil {
		return errorResponse(err)
	}
	filtered, err := service.FilterByStatus(all, c.QueryParam("status"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, CampListResponse{
		Stats: service.ComputeStats(all),
		Camps: filtered,
	})
}

// UpdateStatus godoc
// @Summary Approve or reject a submission
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Param request body UpdateStatusRequest true "Decision"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/camps/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseCampID(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	status := model.CampStatus(req.Status)
	if err := h.campService.SetStatus(c.Request().Context(), identity, id, status); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"id":     id.String(),
		"status": string(status),
	})
}
