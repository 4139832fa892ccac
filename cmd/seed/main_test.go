package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/internal/testutil"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	blogs := service.NewBlogService(blogRepo, nil, nil, 0, zap.NewNop())
	ctx := context.Background()

	res, err := seed(ctx, users, blogs, demoData(), bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, 2, res.UsersCreated)
	assert.Equal(t, 16, res.BlogsCreated)

	res, err = seed(ctx, users, blogs, demoData(), bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UsersCreated)
	assert.Equal(t, 2, res.UsersExisting)
	assert.Equal(t, 0, res.BlogsCreated)

	total, err := blogRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(16), total)
}

func TestSeed_RejectsWeakPassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	blogs := service.NewBlogService(repository.NewBlogRepository(db), nil, nil, 0, zap.NewNop())

	_, err := seed(context.Background(), users, blogs, []SeedUser{{Name: "Weak", Email: "weak@example.com", Password: "weak"}}, bcrypt.MinCost)
	assert.ErrorContains(t, err, "Password must contain")
}

func TestLoadSeed(t *testing.T) {
	payload := `[{"name":"Linus","email":"linus@example.com","password":"Passw0rd!","blogs":[{"title":"Kernel notes","content":"Notes about the kernel."}]}]`

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.json")
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

		users, err := loadSeed(path)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "linus@example.com", users[0].Email)
		assert.Len(t, users[0].Blogs, 1)
	})

	t.Run("url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))
		defer srv.Close()

		users, err := loadSeed(srv.URL)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := loadSeed(srv.URL)
		assert.EqualError(t, err, "seed source returned status code: 404")
	})

	t.Run("built-in", func(t *testing.T) {
		users, err := loadSeed("")
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
