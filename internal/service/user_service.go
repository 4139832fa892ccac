package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/cache"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// UpdateUserInput holds the profile fields to change; nil fields stay as they are.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

// UserService exposes profile operations.
type UserService interface {
	UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	cache      *cache.Client
	bcryptCost int
}

// NewUserService builds a UserService. Renames retire the cached blog listing,
// whose pages embed author names.
func NewUserService(repo repository.UserRepository, cache *cache.Client, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{repo: repo, cache: cache, bcryptCost: bcryptCost}
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	renamed := in.Name != nil && *in.Name != user.Name
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if renamed {
		retireBlogListing(ctx, s.cache)
	}
	return user, nil
}
