package main

import (
	"os"
	"time"

	"whatsapp-console/internal/api"
	"whatsapp-console/internal/config"
	"whatsapp-console/internal/database"
	"whatsapp-console/internal/store"
	"whatsapp-console/internal/whatsapp"
	"whatsapp-console/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	setupLogging(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	st := store.New(db)
	client := whatsapp.NewClient(cfg)
	hub := ws.NewHub()
	go hub.Run()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	api.RegisterRoutes(r, cfg, st, client, hub)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
