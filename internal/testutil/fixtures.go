package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

// DefaultPassword satisfies the strong password rule.
const DefaultPassword = "Passw0rd!"

// UserBuilder builds users for tests.
type UserBuilder struct {
	name     string
	email    string
	password string
	role     model.Role
}

// NewUserBuilder returns a builder with unique defaults.
func NewUserBuilder() *UserBuilder {
	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	return &UserBuilder{
		name:     "user-" + suffix,
		email:    fmt.Sprintf("user-%s@example.com", suffix),
		password: DefaultPassword,
		role:     model.RoleUser,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role model.Role) *UserBuilder {
	b.role = role
	return b
}

// Build returns the user without persisting it.
func (b *UserBuilder) Build(t *testing.T) (*model.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &model.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hash),
		Role:         b.role,
	}, b.password
}

// Create persists the user and returns it with its raw password.
func (b *UserBuilder) Create(t *testing.T, db *gorm.DB) (*model.User, string) {
	t.Helper()

	user, raw := b.Build(t)
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, raw
}

// CreateBlog persists a blog authored by author.
func CreateBlog(t *testing.T, db *gorm.DB, author *model.User, title, content string) *model.Blog {
	t.Helper()

	blog := &model.Blog{
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
	}
	if err := db.Omit("Author").Create(blog).Error; err != nil {
		t.Fatalf("failed to create blog: %v", err)
	}
	return blog
}
