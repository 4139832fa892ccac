package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// BlogRepository defines blog persistence operations. Lookups always preload
// the author.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	List(ctx context.Context, offset, limit int) ([]model.Blog, error)
	Count(ctx context.Context) (int64, error)
	UpdateByAuthor(ctx context.Context, id, authorID uuid.UUID, fields map[string]interface{}) (*model.Blog, error)
	DeleteByAuthor(ctx context.Context, id, authorID uuid.UUID) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create inserts the blog and loads its author.
func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(blog).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Author").Where("id = ?", blog.ID).First(blog).Error
}

// FindByID finds a blog by ID together with its author.
func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// List returns one page of blogs in creation order.
func (r *blogRepository) List(ctx context.Context, offset, limit int) ([]model.Blog, error) {
	blogs := make([]model.Blog, 0, limit)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

// Count returns the total number of blogs.
func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Blog{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateByAuthor applies fields to the blog only when authorID owns it.
// updated_at is refreshed by GORM.
func (r *blogRepository) UpdateByAuthor(ctx context.Context, id, authorID uuid.UUID, fields map[string]interface{}) (*model.Blog, error) {
	err := r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(fields).Error
	if err != nil {
		return nil, err
	}

	var blog model.Blog
	err = r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND author_id = ?", id, authorID).
		First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// DeleteByAuthor removes the blog only when authorID owns it.
func (r *blogRepository) DeleteByAuthor(ctx context.Context, id, authorID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&model.Blog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotOwner
	}
	return nil
}
