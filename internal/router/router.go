package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"blogapi/internal/handler"
	"blogapi/internal/middleware"
	"blogapi/internal/validation"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Blog *handler.BlogHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, logger *zap.Logger, gate *middleware.Gate, h Handlers) {
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Validator = validation.New()

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.HeaderRefreshToken,
		},
		ExposeHeaders: []string{middleware.HeaderRotatedAccessToken, middleware.HeaderRotatedRefresh},
	}))
	e.Use(requestLogger(logger))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/signup", h.Auth.SignUp)
	e.POST("/signin", h.Auth.SignIn)
	e.GET("/getBlogList", h.Blog.GetBlogList)

	// Access gate
	authenticate := gate.Authenticate()
	e.PUT("/updateUser", h.User.UpdateUser, authenticate)
	e.POST("/signout", h.Auth.SignOut, authenticate)
	e.POST("/createBlog", h.Blog.CreateBlog, authenticate)

	// Ownership gate
	owned := gate.Ownership()
	e.PUT("/updateBlog", h.Blog.UpdateBlog, owned)
	e.DELETE("/deleteBlog", h.Blog.DeleteBlog, owned)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		},
	})
}
