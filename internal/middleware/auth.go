package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// Request and response headers used by the gates.
const (
	HeaderRefreshToken       = "x-refresh-token"
	HeaderRotatedAccessToken = "Access-Token"
	HeaderRotatedRefresh     = "Refresh-Token"
)

// Rejection messages. Clients tell 401 causes apart by text.
const (
	MsgNoToken        = "No token provided, authorization denied."
	MsgNoRefreshToken = "No refresh token provided."
	MsgNotAuthorized  = "Not authorized to access this resource."
	MsgBothExpired    = "Both access token and refresh token have expired. Please log in again."
	MsgBlogNotFound   = "Blog not found."
	MsgNotBlogOwner   = "You are not authorized to update this blog."
)

const (
	identityKey = "identity"
	blogKey     = "blog"
)

// Identity is the authenticated caller attached to the request context.
// Token is the access token that authenticated the request, which is the
// freshly minted one after a silent rotation.
type Identity struct {
	UserID       uuid.UUID
	Token        string
	RefreshToken string
	User         *model.User
}

// BlogFinder loads a blog together with its author.
type BlogFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
}

// Gate authenticates callers and enforces blog ownership.
type Gate struct {
	tokens *auth.TokenService
	users  auth.UserFinder
	blogs  BlogFinder
	logger *zap.Logger
}

// NewGate creates the access and ownership gates.
func NewGate(tokens *auth.TokenService, users auth.UserFinder, blogs BlogFinder, logger *zap.Logger) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
		blogs:  blogs,
		logger: logger,
	}
}

// Authenticate requires a valid access token, silently rotating an expired
// one when the refresh token is still tracked.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := g.authenticate(c)
			if err != nil {
				return err
			}
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// Ownership authenticates the caller, then loads the blog named by the blogId
// query parameter and lets the request through only for its author.
func (g *Gate) Ownership() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := g.authenticate(c)
			if err != nil {
				return err
			}

			blogID, err := uuid.Parse(c.QueryParam("blogId"))
			if err != nil {
				return apperrors.NotFound(MsgBlogNotFound)
			}
			blog, err := g.blogs.FindByID(c.Request().Context(), blogID)
			if err != nil {
				if errors.Is(err, apperrors.ErrBlogNotFound) {
					return apperrors.NotFound(MsgBlogNotFound)
				}
				return fmt.Errorf("load blog: %w", err)
			}
			if !blog.OwnedBy(identity.UserID) {
				return apperrors.Forbidden(MsgNotBlogOwner)
			}

			SetIdentity(c, identity)
			SetBlog(c, blog)
			return next(c)
		}
	}
}

func (g *Gate) authenticate(c echo.Context) (*Identity, error) {
	req := c.Request()
	ctx := req.Context()

	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperrors.Unauthorized(MsgNoToken)
	}
	accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	refreshToken := req.Header.Get(HeaderRefreshToken)
	if refreshToken == "" {
		return nil, apperrors.Unauthorized(MsgNoRefreshToken)
	}

	claims, err := g.tokens.VerifyAccessToken(accessToken)
	switch {
	case err == nil:
		user, err := g.loadUser(ctx, claims)
		if err != nil {
			return nil, err
		}
		return &Identity{UserID: user.ID, Token: accessToken, RefreshToken: refreshToken, User: user}, nil
	case auth.IsExpired(err):
		return g.refresh(c, refreshToken)
	default:
		return nil, apperrors.Unauthorized(err.Error())
	}
}

func (g *Gate) refresh(c echo.Context, refreshToken string) (*Identity, error) {
	ctx := c.Request().Context()

	if _, err := g.tokens.VerifyRefreshSignature(refreshToken); err != nil {
		return nil, apperrors.Unauthorized(MsgBothExpired)
	}

	pair, err := g.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		g.logger.Debug("token rotation rejected", zap.Error(err))
		return nil, apperrors.Unauthorized(MsgBothExpired)
	}

	claims, err := g.tokens.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err.Error())
	}
	user, err := g.loadUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	c.Response().Header().Set(HeaderRotatedAccessToken, pair.AccessToken)
	c.Response().Header().Set(HeaderRotatedRefresh, pair.RefreshToken)
	return &Identity{UserID: user.ID, Token: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user}, nil
}

func (g *Gate) loadUser(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, apperrors.Unauthorized(MsgNotAuthorized)
	}
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Unauthorized(MsgNotAuthorized)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// SetIdentity attaches an authenticated caller to the request context.
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the caller attached by Authenticate or Ownership.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// SetBlog attaches the blog an ownership check has cleared.
func SetBlog(c echo.Context, blog *model.Blog) {
	c.Set(blogKey, blog)
}

// BlogFrom returns the blog loaded by Ownership.
func BlogFrom(c echo.Context) (*model.Blog, bool) {
	blog, ok := c.Get(blogKey).(*model.Blog)
	return blog, ok && blog != nil
}

// MustBlog is BlogFrom for routes mounted behind Ownership.
func MustBlog(c echo.Context) (*model.Blog, error) {
	blog, ok := BlogFrom(c)
	if !ok {
		return nil, apperrors.NotFound(MsgBlogNotFound)
	}
	return blog, nil
}

// MustIdentity is IdentityFrom for routes mounted behind a gate.
func MustIdentity(c echo.Context) (*Identity, error) {
	identity, ok := IdentityFrom(c)
	if !ok {
		return nil, apperrors.Unauthorized(MsgNotAuthorized)
	}
	return identity, nil
}
