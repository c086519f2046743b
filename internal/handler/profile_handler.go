package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medcamp/internal/service"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler creates a handler layer.
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// UpdateProfileRequest carries the display fields shown to reviewers.
type UpdateProfileRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	Organization string `json:"organization" validate:"required"`
}

// GetProfile godoc
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.Get(c.Request().Context(), identity)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Create or update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.svc.Update(c.Request().Context(), identity, req.FullName, req.Organization)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, profile)
}
