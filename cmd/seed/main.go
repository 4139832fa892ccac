package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/config"
	"blogapi/internal/db"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/logger"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/internal/validation"
)

// SeedUser is one demo account and the blogs it authors.
type SeedUser struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Blogs    []SeedBlog `json:"blogs"`
}

// SeedBlog is one demo blog.
type SeedBlog struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// seedResult counts what a run changed.
type seedResult struct {
	UsersCreated  int
	UsersExisting int
	BlogsCreated  int
}

func main() {
	source := flag.String("source", "", "JSON seed file path or http(s) URL; built-in demo data when empty")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	data, err := loadSeed(*source)
	if err != nil {
		log.Fatal("failed to load seed data", zap.String("source", *source), zap.Error(err))
	}
	log.Info("seed data loaded", zap.Int("users", len(data)))

	users := repository.NewUserRepository(gormDB)
	blogs := service.NewBlogService(repository.NewBlogRepository(gormDB), nil, nil, 0, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := seed(ctx, users, blogs, data, cfg.BcryptCost)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("users_existing", res.UsersExisting),
		zap.Int("blogs_created", res.BlogsCreated),
	)
}

// seed creates every user whose email is not taken yet, then its blogs. Users
// that already exist are left untouched together with their blogs, so reruns
// never duplicate content.
func seed(ctx context.Context, users repository.UserRepository, blogs service.BlogService, data []SeedUser, cost int) (seedResult, error) {
	var res seedResult
	v := validation.New()

	for _, item := range data {
		if !validation.IsStrongPassword(item.Password) {
			return res, fmt.Errorf("user %s: %s", item.Email, validation.StrongPasswordMessage)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), cost)
		if err != nil {
			return res, fmt.Errorf("hash password for %s: %w", item.Email, err)
		}
		user := &model.User{
			Name:         strings.TrimSpace(item.Name),
			Email:        item.Email,
			PasswordHash: string(hash),
			Role:         model.RoleUser,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrEmailExists) {
				res.UsersExisting++
				continue
			}
			return res, fmt.Errorf("create user %s: %w", item.Email, err)
		}
		res.UsersCreated++

		for _, b := range item.Blogs {
			in := blogInput{Title: strings.TrimSpace(b.Title), Content: strings.TrimSpace(b.Content)}
			if err := v.Validate(&in); err != nil {
				return res, fmt.Errorf("blog %q: %w", b.Title, err)
			}
			if _, err := blogs.Create(ctx, user.ID, service.CreateBlogInput{Title: in.Title, Content: in.Content}); err != nil {
				return res, fmt.Errorf("create blog %q: %w", b.Title, err)
			}
			res.BlogsCreated++
		}
	}

	return res, nil
}

type blogInput struct {
	Title   string `json:"title" validate:"required,min=5,max=200"`
	Content string `json:"content" validate:"required,min=15,max=5000"`
}

// loadSeed reads seed data from a file or URL, or returns the built-in set.
func loadSeed(source string) ([]SeedUser, error) {
	switch {
	case source == "":
		return demoData(), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetchSeed(source)
	default:
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		return decodeSeed(raw)
	}
}

// fetchSeed downloads seed data from a URL.
func fetchSeed(url string) ([]SeedUser, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return decodeSeed(body)
}

func decodeSeed(raw []byte) ([]SeedUser, error) {
	var users []SeedUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// demoData gives two authors enough blogs to span several listing pages.
func demoData() []SeedUser {
	authors := []SeedUser{
		{Name: "Ada Lovelace", Email: "ada@example.com", Password: "Analyt1cal!"},
		{Name: "Grace Hopper", Email: "grace@example.com", Password: "C0b0lRules!"},
	}
	for i := range authors {
		for n := 1; n <= 8; n++ {
			authors[i].Blogs = append(authors[i].Blogs, SeedBlog{
				Title:   fmt.Sprintf("%s, note %d", strings.Fields(authors[i].Name)[0], n),
				Content: fmt.Sprintf("Seeded post number %d written by %s for local testing.", n, authors[i].Name),
			})
		}
	}
	return authors
}
