package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/atokurn/mplace-sub001/internal/config"
	"github.com/atokurn/mplace-sub001/internal/db"
	"github.com/atokurn/mplace-sub001/internal/entity"
	"github.com/atokurn/mplace-sub001/internal/handler"
	"github.com/atokurn/mplace-sub001/internal/listing"
	"github.com/atokurn/mplace-sub001/internal/logger"
	"github.com/atokurn/mplace-sub001/internal/router"
)

func main() {
	debugFlag := flag.Bool("d", false, "enable debug logging")
	flag.Parse()

	cfg := config.LoadConfig()
	if err := logger.Init("."); err != nil {
		fmt.Fprintf(os.Stderr, "log init failed: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(*debugFlag)

	// PostgreSQL
	if err := db.InitPostgres(cfg.PostgresDSN); err != nil {
		logger.Error("postgres_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.ClosePostgres()
	logger.Info("postgres_connected", nil)

	// Redis is optional; without it the page cache is in-process.
	db.InitRedis(cfg.RedisAddr)
	if db.RDB != nil {
		if err := db.PingRedis(context.Background()); err != nil {
			logger.Error("redis_init_failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		logger.Info("redis_connected", nil)
	}

	// Entity registry
	if err := entity.InitRegistry(cfg.EntitiesDir); err != nil {
		logger.Error("registry_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logger.Info("entities_initialized", map[string]any{"kinds": len(entity.Registry)})

	// Listing service
	var cache listing.Cache
	switch {
	case cfg.Cache.Disabled:
		cache = nil
	case db.RDB != nil:
		cache = listing.NewRedisCache(db.RDB)
	default:
		cache = listing.NewMemCache()
	}
	svc := listing.NewService(
		listing.NewPgxStore(db.Pool),
		cache,
		time.Duration(cfg.Cache.DefaultTTLSec)*time.Second,
	)
	handler.Init(svc)

	// Routes and HTTP server
	router.InitRoutes(cfg)
	logger.Info("server_start", map[string]any{"port": cfg.Port})
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.Error("server_error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
