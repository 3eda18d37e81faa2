// Package router mounts the public API under /api/v1 and the admin API
// under /admin/v1.
package router

import (
	"time"

	"aqarat_backend/internal/controller"
	"aqarat_backend/internal/middleware"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps is everything the routes need.
type Deps struct {
	DB          *gorm.DB
	Cache       cache.Store
	Issuer      *jwt.Issuer
	FrontendURL string

	Properties *service.PropertyService
	Reviews    *service.ReviewService
	Auth       *service.AuthService
	Users      *service.UserService
	Favorites  *service.FavoriteService
	Settings   *service.SettingsService
	Support    *service.SupportService
}

// New builds the Fiber app with the error envelope and the request
// middleware chain.
func New(bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: controller.ErrorHandler,
		BodyLimit:    bodyLimit,
		AppName:      "aqarat",
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.Recover())
	app.Use(middleware.Metrics())
	return app
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})

	properties := controller.NewPropertyController(d.Properties)
	reviews := controller.NewReviewController(d.Reviews)
	auth := controller.NewAuthController(d.Auth, d.FrontendURL)
	profile := controller.NewProfileController(d.Users, d.Auth)
	users := controller.NewUserController(d.Users)
	favorites := controller.NewFavoriteController(d.Favorites)
	settings := controller.NewSettingsController(d.Settings)
	support := controller.NewSupportController(d.Support)

	requireAuth := middleware.AuthMiddleware(d.Issuer, d.DB)
	limit := func(action string, max int, window time.Duration) fiber.Handler {
		return middleware.ActionLimit(d.Cache, action, max, window)
	}

	api := app.Group("/api/v1")

	// User routes
	user := api.Group("/user")
	user.Post("/signup", limit("signup", 5, time.Minute), auth.Signup)
	user.Post("/login", limit("login", 5, time.Minute), auth.Login)
	user.Get("/profile", requireAuth, profile.Show)
	user.Patch("/profile", requireAuth, profile.Update)
	user.Patch("/profile/password", requireAuth, profile.ChangePassword)
	user.Delete("/logout", requireAuth, profile.Logout)
	user.Get("/favorites", requireAuth, favorites.List)
	user.Post("/favorites/:propertyId", requireAuth, limit("toggle_favorite", 8, time.Minute), favorites.Toggle)
	user.Post("/support", requireAuth, limit("support", 5, 2*time.Minute), support.Create)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Get("/google/redirect", limit("google", 5, 2*time.Minute), auth.GoogleRedirect)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/forgot-password", limit("forgot-password", 5, 2*time.Minute), auth.ForgotPassword)
	authGroup.Post("/reset-password", limit("reset-password", 5, 2*time.Minute), auth.ResetPassword)

	// Review routes
	reviewGroup := api.Group("/reviews")
	reviewGroup.Get("/", reviews.List)
	reviewGroup.Get("/:propertyId", reviews.ByProperty)
	reviewGroup.Post("/", requireAuth, limit("post_review", 3, time.Minute), reviews.Create)
	reviewGroup.Patch("/:id/toggle-like", requireAuth, limit("review_like", 5, time.Minute), reviews.ToggleLike)

	// Property routes
	propertyGroup := api.Group("/properties")
	propertyGroup.Get("/", properties.Index)
	propertyGroup.Get("/filter", properties.Filter)
	propertyGroup.Get("/property/:slug", properties.Show)

	api.Get("/settings", settings.Get)
	api.Get("/slider/:id", settings.Slider)

	// Admin routes
	admin := app.Group("/admin/v1", requireAuth, middleware.IsAdmin())
	admin.Get("/settings", settings.Get)
	admin.Patch("/settings", settings.Update)

	admin.Get("/reviews", reviews.AdminList)
	admin.Delete("/reviews/:id", reviews.AdminDelete)

	admin.Get("/users", users.List)
	admin.Patch("/users/:id", users.Update)
	admin.Delete("/users/:id", users.Delete)

	admin.Get("/properties", properties.Index)
	admin.Post("/properties", properties.Create)
	admin.Patch("/properties/:id", properties.Update)
	admin.Delete("/properties/:id", properties.Delete)
}
