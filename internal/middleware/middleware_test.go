package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/utils/jwt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mw_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func body(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func authApp(issuer *jwt.Issuer, db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(issuer, db), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": Claims(c).UserID, "role": Claims(c).Role})
	})
	app.Get("/admin", AuthMiddleware(issuer, db), IsAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func TestAuthMiddleware(t *testing.T) {
	db := newDB(t)
	issuer := jwt.NewIssuer("middleware-secret-123", time.Hour)
	app := authApp(issuer, db)

	u := model.User{Name: "Ali", Email: "ali@example.com", Role: model.RoleUser, TokenVersion: 2}
	require.NoError(t, db.Create(&u).Error)

	t.Run("missing header", func(t *testing.T) {
		res := get(t, app, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, map[string]any{"status": "error", "message": "يجب تسجيل الدخول اولا"}, body(t, res))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", "nope").StatusCode)
	})

	t.Run("current version", func(t *testing.T) {
		token, err := issuer.GenerateToken(u.ID, "user", 2)
		require.NoError(t, err)
		res := get(t, app, "/me", token)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, float64(u.ID), body(t, res)["id"])
	})

	t.Run("revoked version", func(t *testing.T) {
		token, err := issuer.GenerateToken(u.ID, "user", 1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", token).StatusCode)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := issuer.GenerateToken(999, "user", 0)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(t, app, "/me", token).StatusCode)
	})
}

func TestIsAdmin_UsesStoredRole(t *testing.T) {
	db := newDB(t)
	issuer := jwt.NewIssuer("middleware-secret-123", time.Hour)
	app := authApp(issuer, db)

	u := model.User{Name: "Ali", Email: "ali@example.com", Role: model.RoleUser}
	require.NoError(t, db.Create(&u).Error)

	// The token claims admin but the account is not.
	forged, err := issuer.GenerateToken(u.ID, "admin", 0)
	require.NoError(t, err)
	res := get(t, app, "/admin", forged)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "يجب ان تكون ادمن", body(t, res)["message"])

	require.NoError(t, db.Model(&u).Update("role", model.RoleAdmin).Error)
	token, err := issuer.GenerateToken(u.ID, "user", 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(t, app, "/admin", token).StatusCode)
}

func TestActionLimit(t *testing.T) {
	store := cache.NewMemoryStore()
	app := fiber.New()
	app.Post("/reviews", ActionLimit(store, "post_review", 3, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodPost, "/reviews", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res, err := app.Test(httptest.NewRequest(http.MethodPost, "/reviews", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, "60", res.Header.Get("Retry-After"))
	assert.Equal(t, "حاول مرة أخرى بعد 60 ثانية.", body(t, res)["message"])
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(0.001, 2)
	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, res.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestIPRateLimiter_ZeroDisables(t *testing.T) {
	app := fiber.New()
	app.Use(NewIPRateLimiter(0, 1).Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 5; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}
}

func TestRequestIDAndRecover(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), Logger(), Metrics(), Recover())
	app.Get("/boom", func(c *fiber.Ctx) error { panic("kaboom") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString(RequestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", res.Header.Get("X-Request-ID"))
	raw, _ := io.ReadAll(res.Body)
	assert.Equal(t, "abc-123", string(raw))

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "حدث خطأ في السيرفر", body(t, res)["message"])
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}
