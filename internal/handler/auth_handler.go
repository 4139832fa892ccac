package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

// SignOutResult is the body returned after a successful sign-out.
const SignOutResult = "Signed out"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} service.AuthResult
// @Failure 500 {string} string
// @Router /signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := bindAndValidate(c, &req, http.StatusInternalServerError); err != nil {
		return err
	}

	result, err := h.authService.SignUp(c.Request().Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, result)
}

// SignIn godoc
// @Summary Sign in
// @Description Issues a new token pair. Any previous refresh token of the user stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 201 {object} service.AuthResult
// @Failure 403 {string} string
// @Router /signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := bindAndValidate(c, &req, http.StatusForbidden); err != nil {
		return err
	}

	result, err := h.authService.SignIn(c.Request().Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusForbidden)
	}

	return c.JSON(http.StatusCreated, result)
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes the refresh token sent in x-refresh-token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param x-refresh-token header string true "Refresh token"
// @Success 200 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	identity, err := middleware.MustIdentity(c)
	if err != nil {
		return err
	}

	if err := h.authService.SignOut(c.Request().Context(), identity.UserID, identity.RefreshToken); err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, SignOutResult)
}
