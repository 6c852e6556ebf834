package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalogue/internal/config"
	"github.com/iliyamo/film-catalogue/internal/database"
	"github.com/iliyamo/film-catalogue/internal/handler"
	"github.com/iliyamo/film-catalogue/internal/logger"
	"github.com/iliyamo/film-catalogue/internal/queue"
	"github.com/iliyamo/film-catalogue/internal/repository"
	"github.com/iliyamo/film-catalogue/internal/router"
	"github.com/iliyamo/film-catalogue/internal/service"
	"github.com/iliyamo/film-catalogue/internal/storage"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("film-catalogue")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer db.Close()

	images, err := storage.NewImageStore(cfg.ImageDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ImageDir).Msg("prepare image dir failed")
	}

	users := repository.NewUserRepo(db)
	films := repository.NewFilmRepo(db)
	genres := repository.NewGenreRepo(db)
	reviews := repository.NewReviewRepo(db)

	publisher := &service.ReviewPublisher{URL: cfg.AMQPURL, Log: log}
	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartReviewConsumer(cfg.AMQPURL, log); err != nil {
				log.Error().Err(err).Msg("review consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, caching and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Auth:          handler.NewAuthHandler(cfg, users, log),
		Users:         handler.NewUserHandler(cfg, users, images, log),
		Films:         handler.NewFilmHandler(films, genres, reviews, images, log),
		Reviews:       handler.NewReviewHandler(films, reviews, publisher, log),
		SessionSecret: cfg.SessionSecret,
		Sessions:      users,
		Log:           log,
		Redis:         rdb,
		Cache:         config.LoadCacheConfig(),
		RateLimit:     config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
