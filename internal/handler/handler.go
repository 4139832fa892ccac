package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
)

type normalizer interface {
	normalize()
}

// bindAndValidate decodes the body into req, trims it and runs the validator.
// Failures are reported with the endpoint's failure status.
func bindAndValidate(c echo.Context, req normalizer, failureStatus int) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "Invalid request body.", "BAD_REQUEST")
	}
	req.normalize()
	if err := c.Validate(req); err != nil {
		return apperrors.MapErrorToHTTP(err, failureStatus)
	}
	return nil
}
