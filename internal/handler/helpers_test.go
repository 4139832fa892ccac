package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"blogapi/internal/middleware"
	"blogapi/internal/model"
)

// setIdentity mimics a gate having authenticated userID.
func setIdentity(c echo.Context, userID uuid.UUID) {
	middleware.SetIdentity(c, &middleware.Identity{UserID: userID, Token: "access", RefreshToken: "refresh"})
}

// setOwnedBlog mimics the ownership gate having cleared blog for its author.
func setOwnedBlog(c echo.Context, blog *model.Blog) {
	setIdentity(c, blog.AuthorID)
	middleware.SetBlog(c, blog)
}
