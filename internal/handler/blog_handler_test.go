package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/service"
	"blogapi/internal/validation"
)

// MockBlogService is a mock implementation of service.BlogService.
type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) Create(ctx context.Context, authorID uuid.UUID, in service.CreateBlogInput) (*model.Blog, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogService) List(ctx context.Context, page, limit int) (*service.BlogListPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BlogListPage), args.Error(1)
}

func (m *MockBlogService) Update(ctx context.Context, blogID, authorID uuid.UUID, in service.UpdateBlogInput) (*model.Blog, error) {
	args := m.Called(ctx, blogID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogService) Delete(ctx context.Context, blogID, authorID uuid.UUID) (string, error) {
	args := m.Called(ctx, blogID, authorID)
	return args.String(0), args.Error(1)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBlogHandler_GetBlogList_Defaults(t *testing.T) {
	svc := new(MockBlogService)
	svc.On("List", mock.Anything, 1, 10).Return(&service.BlogListPage{BlogList: []model.Blog{}, CurrentPage: 1}, nil)
	h := NewBlogHandler(svc)

	c, rec := newContext(http.MethodGet, "/getBlogList", "")
	require.NoError(t, h.GetBlogList(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"blogList":[],"currentPage":1,"totalPages":0}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestBlogHandler_GetBlogList_RejectsBeforeService(t *testing.T) {
	tests := []struct {
		query   string
		message string
	}{
		{"?page=-1", "Page must be at least 1."},
		{"?page=0&limit=5", "Page must be at least 1."},
		{"?limit=-3", "Limit must be at least 1."},
		{"?page=one", "Page must be a number."},
		{"?limit=2.5", "Limit must be an integer."},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := new(MockBlogService)
			h := NewBlogHandler(svc)

			c, _ := newContext(http.MethodGet, "/getBlogList"+tt.query, "")
			err := h.GetBlogList(c)

			var httpErr *apperrors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestParsePageParam(t *testing.T) {
	n, err := parsePageParam("", 7, "Page")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = parsePageParam("3", 1, "Page")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = parsePageParam("4.0", 1, "Page")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = parsePageParam("NaN", 1, "Limit")
	assert.EqualError(t, err, "Limit must be a number.")
}

func TestBlogHandler_UpdateBlog_TrimsAndPassesOnlyGivenFields(t *testing.T) {
	svc := new(MockBlogService)
	blogID := uuid.New()
	h := NewBlogHandler(svc)

	c, _ := newContext(http.MethodPut, "/updateBlog?blogId="+blogID.String(), `{"content":"   Fresh content for the post   "}`)
	identityUser := uuid.New()
	setOwnedBlog(c, &model.Blog{ID: blogID, AuthorID: identityUser})

	svc.On("Update", mock.Anything, blogID, identityUser, mock.MatchedBy(func(in service.UpdateBlogInput) bool {
		return in.Title == nil && in.Content != nil && *in.Content == "Fresh content for the post"
	})).Return(&model.Blog{ID: blogID}, nil)

	require.NoError(t, h.UpdateBlog(c))
	svc.AssertExpectations(t)
}

func TestBlogHandler_DeleteBlog_UsesGateLoadedBlog(t *testing.T) {
	svc := new(MockBlogService)
	h := NewBlogHandler(svc)
	blog := &model.Blog{ID: uuid.New(), AuthorID: uuid.New()}

	// The query string names another blog; the gate-loaded one wins.
	c, rec := newContext(http.MethodDelete, "/deleteBlog?blogId="+uuid.NewString(), "")
	setOwnedBlog(c, blog)

	svc.On("Delete", mock.Anything, blog.ID, blog.AuthorID).Return(service.DeleteBlogResult, nil)

	require.NoError(t, h.DeleteBlog(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Delete Blog"`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestBlogHandler_MutationsWithoutGateBlog(t *testing.T) {
	svc := new(MockBlogService)
	h := NewBlogHandler(svc)

	c, _ := newContext(http.MethodDelete, "/deleteBlog?blogId="+uuid.NewString(), "")
	setIdentity(c, uuid.New())
	err := h.DeleteBlog(c)
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	c, _ = newContext(http.MethodPut, "/updateBlog", `{"title":"A fresh title"}`)
	setIdentity(c, uuid.New())
	err = h.UpdateBlog(c)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
