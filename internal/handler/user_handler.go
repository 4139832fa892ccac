package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUser godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param x-refresh-token header string true "Refresh token"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 201 {object} model.User
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /updateUser [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	identity, err := middleware.MustIdentity(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req, http.StatusInternalServerError); err != nil {
		return err
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), identity.UserID, service.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, user)
}
