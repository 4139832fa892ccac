package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// BlogHandler handles blog endpoints.
type BlogHandler struct {
	svc service.BlogService
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// CreateBlog godoc
// @Summary Create a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param x-refresh-token header string true "Refresh token"
// @Param request body CreateBlogRequest true "Blog"
// @Success 201 {object} model.Blog
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /createBlog [post]
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	identity, err := middleware.MustIdentity(c)
	if err != nil {
		return err
	}

	var req CreateBlogRequest
	if err := bindAndValidate(c, &req, http.StatusInternalServerError); err != nil {
		return err
	}

	blog, err := h.svc.Create(c.Request().Context(), identity.UserID, service.CreateBlogInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, blog)
}

// GetBlogList godoc
// @Summary List blogs
// @Tags blogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} service.BlogListPage
// @Failure 500 {string} string
// @Router /getBlogList [get]
func (h *BlogHandler) GetBlogList(c echo.Context) error {
	page, err := parsePageParam(c.QueryParam("page"), defaultPage, "Page")
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}
	limit, err := parsePageParam(c.QueryParam("limit"), defaultLimit, "Limit")
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	query := ListBlogsQuery{Page: page, Limit: limit}
	if err := c.Validate(&query); err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	result, err := h.svc.List(c.Request().Context(), query.Page, query.Limit)
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, result)
}

// UpdateBlog godoc
// @Summary Update a blog
// @Description Only the author may update. Only title and content change.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param x-refresh-token header string true "Refresh token"
// @Param blogId query string true "Blog ID"
// @Param request body UpdateBlogRequest true "Fields to change"
// @Success 200 {object} model.Blog
// @Failure 401 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /updateBlog [put]
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	identity, err := middleware.MustIdentity(c)
	if err != nil {
		return err
	}
	owned, err := middleware.MustBlog(c)
	if err != nil {
		return err
	}

	var req UpdateBlogRequest
	if err := bindAndValidate(c, &req, http.StatusInternalServerError); err != nil {
		return err
	}

	blog, err := h.svc.Update(c.Request().Context(), owned.ID, identity.UserID, service.UpdateBlogInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog godoc
// @Summary Delete a blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param x-refresh-token header string true "Refresh token"
// @Param blogId query string true "Blog ID"
// @Success 200 {string} string
// @Failure 401 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /deleteBlog [delete]
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	identity, err := middleware.MustIdentity(c)
	if err != nil {
		return err
	}
	owned, err := middleware.MustBlog(c)
	if err != nil {
		return err
	}

	result, err := h.svc.Delete(c.Request().Context(), owned.ID, identity.UserID)
	if err != nil {
		return apperrors.MapErrorToHTTP(err, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, result)
}

// parsePageParam reads an optional pagination value. Absent values take the
// default and label prefixes the validation message.
func parsePageParam(raw string, def int, label string) (int, error) {
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperrors.NewValidationError(label, label+" must be a number.")
	}
	if f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		return int(f), nil
	}
	return 0, apperrors.NewValidationError(label, label+" must be an integer.")
}
