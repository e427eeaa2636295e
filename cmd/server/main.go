package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/evseev/postboard/internal/auth"
	"github.com/evseev/postboard/internal/config"
	"github.com/evseev/postboard/internal/database"
	"github.com/evseev/postboard/internal/handler"
	"github.com/evseev/postboard/internal/middleware"
	"github.com/evseev/postboard/internal/queue"
	"github.com/evseev/postboard/internal/repository"
	"github.com/evseev/postboard/internal/router"
	"github.com/evseev/postboard/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Print("redis unavailable; rate limiting and caching disabled")
	}

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays,
		cfg.NotBeforeGapMin, cfg.RenewWithinDays)

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	posts := repository.NewPostRepo(db)

	authSvc := service.NewAuthService(codec, users, sessions)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e,
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(users),
		handler.NewPostHandler(posts),
		middleware.AccessGate(authSvc),
		rdb,
	)

	go queue.StartRegistrationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
