package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "blogapi/internal/errors"
)

// ErrorHandler renders every error as a bare JSON string with its status.
// Errors that carry no status become 500.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := resolve(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, message)
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func resolve(err error) (int, string) {
	var appErr *apperrors.HTTPError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.Message
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Internal != nil {
			if inner, ok := echoErr.Internal.(*echo.HTTPError); ok {
				echoErr = inner
			}
		}
		switch msg := echoErr.Message.(type) {
		case string:
			return echoErr.Code, msg
		case error:
			return echoErr.Code, msg.Error()
		case nil:
			return echoErr.Code, http.StatusText(echoErr.Code)
		default:
			return echoErr.Code, fmt.Sprint(msg)
		}
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
