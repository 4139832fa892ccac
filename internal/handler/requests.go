package handler

import (
	"strings"

	apperrors "blogapi/internal/errors"
)

const msgNothingToUpdate = "At least one field is required to update."

// SignUpRequest represents a registration payload.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

func (r *SignUpRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

// SignInRequest represents sign-in credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

func (r *SignInRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

// UpdateUserRequest represents a profile change. Omitted fields are left alone.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=3,max=50"`
	Password *string `json:"password" validate:"omitnil,strongpassword"`
}

func (r *UpdateUserRequest) normalize() {
	trimPtr(r.Name)
}

// ValidateFields requires at least one field.
func (r *UpdateUserRequest) ValidateFields() error {
	if r.Name == nil && r.Password == nil {
		return apperrors.NewValidationError("", msgNothingToUpdate)
	}
	return nil
}

// CreateBlogRequest represents a new blog.
type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=200"`
	Content string `json:"content" validate:"required,min=15,max=5000"`
}

func (r *CreateBlogRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

// UpdateBlogRequest represents a blog change. Only title and content may change.
type UpdateBlogRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=5,max=200"`
	Content *string `json:"content" validate:"omitnil,min=15,max=5000"`
}

func (r *UpdateBlogRequest) normalize() {
	trimPtr(r.Title)
	trimPtr(r.Content)
}

// ValidateFields requires at least one field.
func (r *UpdateBlogRequest) ValidateFields() error {
	if r.Title == nil && r.Content == nil {
		return apperrors.NewValidationError("", msgNothingToUpdate)
	}
	return nil
}

// ListBlogsQuery holds parsed pagination parameters.
type ListBlogsQuery struct {
	Page  int `json:"page" validate:"min=1"`
	Limit int `json:"limit" validate:"min=1"`
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
