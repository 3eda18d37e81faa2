package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"aqarat_backend/internal/middleware"
	"aqarat_backend/internal/model"
	"aqarat_backend/internal/router"
	"aqarat_backend/internal/service"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/config"
	"aqarat_backend/pkg/cron"
	"aqarat_backend/pkg/database"
	"aqarat_backend/pkg/email"
	"aqarat_backend/pkg/logger"
	"aqarat_backend/pkg/oauth"
	"aqarat_backend/pkg/seed"
	"aqarat_backend/pkg/utils/jwt"
	"aqarat_backend/pkg/utils/storage"
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := database.MigrateDatabase(db, model.All()...); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := database.EnsureSearchIndexes(db); err != nil {
		log.Warn().Err(err).Msg("search indexes")
	}
	if n, err := database.BackfillLocationSearch(db); err != nil {
		log.Warn().Err(err).Msg("location search backfill")
	} else if n > 0 {
		log.Info().Int("rows", n).Msg("backfilled location search columns")
	}
	if err := seed.Run(db, cfg.Seed); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	store := newCache(cfg.Redis)
	files := newStorage(cfg.Storage)

	mailer, err := email.New(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize email service")
	}

	var google service.GoogleProvider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogle(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, cfg.OAuth.GoogleRedirectURL)
	} else {
		log.Warn().Msg("google sign-in disabled: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET or GOOGLE_REDIRECT_URL missing")
	}

	scheduler := cron.InitResetTokenCron(db)

	app := router.New(cfg.Server.BodyLimit)
	app.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	app.Use(middleware.NewIPRateLimiter(cfg.Server.RateRPS, cfg.Server.RateBurst).Handler())
	if local, ok := files.(*storage.Local); ok {
		app.Static("/public", local.Root())
	}

	router.Setup(app, deps(cfg, db, store, files, mailer, google))

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server is running")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func deps(cfg *config.Config, db *gorm.DB, store cache.Store, files storage.Storage, mailer email.Sender, google service.GoogleProvider) router.Deps {
	media := service.NewMedia(files)
	issuer := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)

	return router.Deps{
		DB:          db,
		Cache:       store,
		Issuer:      issuer,
		FrontendURL: cfg.Server.FrontendURL,
		Properties:  service.NewPropertyService(db, store, media),
		Reviews:     service.NewReviewService(db, store, cfg.Cache.ReviewPagesBound),
		Auth: service.NewAuthService(db, store, issuer, mailer, google, service.AuthConfig{
			FrontendURL:         cfg.Server.FrontendURL,
			AdminUserPagesBound: cfg.Cache.AdminUserPagesBound,
		}),
		Users:     service.NewUserService(db, store, cfg.Cache.AdminUserPagesBound, cfg.Cache.ReviewPagesBound),
		Favorites: service.NewFavoriteService(db, store),
		Settings:  service.NewSettingsService(db, store, media),
		Support:   service.NewSupportService(db, media),
	}
}

// newCache uses Redis when REDIS_ADDR is set and the in-process store
// otherwise.
func newCache(cfg config.RedisConfig) cache.Store {
	if cfg.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(cfg.Addr, cfg.Password, cfg.DB, cfg.Prefix)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("could not connect to redis")
	}
	return store
}

func newStorage(cfg config.StorageConfig) storage.Storage {
	if cfg.Driver == "r2" {
		r2, err := storage.NewR2(context.Background(), storage.R2Config{
			AccountID: cfg.R2AccountID,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
			PublicURL: cfg.PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize r2 storage")
		}
		return r2
	}
	local, err := storage.NewLocal(cfg.LocalDir, cfg.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize local storage")
	}
	return local
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		return cors.Config{AllowOrigins: "*", AllowHeaders: "Origin, Content-Type, Accept, Authorization, page"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, page",
		AllowCredentials: true,
	}
}
