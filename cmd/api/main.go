// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/tabellone/tabellone/cache"
	"github.com/tabellone/tabellone/internal/board"
	"github.com/tabellone/tabellone/internal/config"
	"github.com/tabellone/tabellone/internal/http/routes"
	"github.com/tabellone/tabellone/openweather"
	"github.com/tabellone/tabellone/viaggiatreno"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	// Cache backend
	var store cache.Store
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer func() {
			if err := rc.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing redis")
			}
		}()
		store = rc
		logger.Info().Str("addr", cfg.Cache.RedisAddr).Msg("using redis cache")
	default:
		store = cache.NewMemory()
	}

	// Upstream clients
	transit := viaggiatreno.New()
	weather, err := openweather.New(cfg.Weather.APIKey)
	if err != nil {
		log.Fatalf("weather client error: %v", err)
	}

	svc := board.New(board.Options{
		Transit: transit,
		Weather: weather,
		Cache:   store,
		Cfg:     cfg,
		Logger:  logger,
		Now:     time.Now,
	})

	// Router / server
	s := routes.New(routes.ServerOptions{Board: svc, Cfg: cfg, Logger: logger})
	h := hlog.NewHandler(logger)(s.Router)

	logger.Info().
		Str("port", cfg.Port).
		Str("shape", cfg.Board.ResponseShape).
		Str("city", cfg.Weather.City).
		Bool("api_key_gate", cfg.HasAPIKey()).
		Msg("starting tabellone")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}
	log.Fatal(srv.ListenAndServe())
}
