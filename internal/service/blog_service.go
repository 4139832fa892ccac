package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/events"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const (
	// DefaultBlogListCacheTTL bounds how long a cached listing page lives.
	DefaultBlogListCacheTTL = time.Minute
	// DeleteBlogResult is the body returned after a successful delete.
	DeleteBlogResult = "Delete Blog"

	blogListGenerationKey = "blogs:gen"
)

// CreateBlogInput carries a validated new blog.
type CreateBlogInput struct {
	Title   string
	Content string
}

// UpdateBlogInput holds the blog fields to change; nil fields stay as they are.
type UpdateBlogInput struct {
	Title   *string
	Content *string
}

// BlogListPage is one page of the blog listing.
type BlogListPage struct {
	BlogList    []model.Blog `json:"blogList"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
}

// BlogService exposes blog operations. Mutations are always scoped to the author.
type BlogService interface {
	Create(ctx context.Context, authorID uuid.UUID, in CreateBlogInput) (*model.Blog, error)
	List(ctx context.Context, page, limit int) (*BlogListPage, error)
	Update(ctx context.Context, blogID, authorID uuid.UUID, in UpdateBlogInput) (*model.Blog, error)
	Delete(ctx context.Context, blogID, authorID uuid.UUID) (string, error)
}

type blogService struct {
	repo      repository.BlogRepository
	cache     *cache.Client
	publisher events.Publisher
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewBlogService builds a BlogService. A nil cache disables listing caching and
// a nil publisher drops events.
func NewBlogService(repo repository.BlogRepository, cache *cache.Client, publisher events.Publisher, cacheTTL time.Duration, logger *zap.Logger) BlogService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultBlogListCacheTTL
	}
	return &blogService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *blogService) Create(ctx context.Context, authorID uuid.UUID, in CreateBlogInput) (*model.Blog, error) {
	blog := &model.Blog{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.BlogCreated, blog)
	return blog, nil
}

func (s *blogService) List(ctx context.Context, page, limit int) (*BlogListPage, error) {
	if page < 1 {
		return nil, apperrors.NewValidationError("page", "Page must be at least 1.")
	}
	if limit < 1 {
		return nil, apperrors.NewValidationError("limit", "Limit must be at least 1.")
	}

	key := s.listCacheKey(ctx, page, limit)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached BlogListPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count blogs: %w", err)
	}
	blogs, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	result := &BlogListPage{
		BlogList:    blogs,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
	}

	if payload, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, key, payload, s.cacheTTL)
	}
	return result, nil
}

func (s *blogService) Update(ctx context.Context, blogID, authorID uuid.UUID, in UpdateBlogInput) (*model.Blog, error) {
	fields := make(map[string]interface{}, 2)
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("", "At least one field is required to update.")
	}

	blog, err := s.repo.UpdateByAuthor(ctx, blogID, authorID, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.BlogUpdated, blog)
	return blog, nil
}

func (s *blogService) Delete(ctx context.Context, blogID, authorID uuid.UUID) (string, error) {
	if err := s.repo.DeleteByAuthor(ctx, blogID, authorID); err != nil {
		return "", err
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.BlogDeleted, &model.Blog{ID: blogID, AuthorID: authorID})
	return DeleteBlogResult, nil
}

// listCacheKey embeds the listing generation so a single INCR retires every
// cached page.
func (s *blogService) listCacheKey(ctx context.Context, page, limit int) string {
	gen := s.cache.Counter(ctx, blogListGenerationKey)
	return fmt.Sprintf("blogs:list:%d:%d:%d", gen, page, limit)
}

func (s *blogService) invalidateList(ctx context.Context) {
	retireBlogListing(ctx, s.cache)
}

// retireBlogListing bumps the listing generation so no cached page is served again.
func retireBlogListing(ctx context.Context, c *cache.Client) {
	c.Incr(ctx, blogListGenerationKey)
}

func (s *blogService) publish(ctx context.Context, eventType string, blog *model.Blog) {
	err := s.publisher.Publish(ctx, events.BlogEvent{
		Type:       eventType,
		BlogID:     blog.ID,
		AuthorID:   blog.AuthorID,
		Title:      blog.Title,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("blog event not published", zap.String("event", eventType), zap.Error(err))
	}
}
