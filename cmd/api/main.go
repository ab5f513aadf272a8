// cmd/api/main.go
// Bootstraps the matching API and its background fame refresh

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vfuster66/matcha-42-sub000/internal/auth"
	"github.com/vfuster66/matcha-42-sub000/internal/common/database"
	"github.com/vfuster66/matcha-42-sub000/internal/common/utils"
	"github.com/vfuster66/matcha-42-sub000/internal/config"
	"github.com/vfuster66/matcha-42-sub000/internal/logger"
	"github.com/vfuster66/matcha-42-sub000/internal/matching"
)

var startTime = time.Now()

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	log.Info("starting matcha matching API",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	db, err := database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxLifetime:  cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	log.Info("PostgreSQL connected")

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("database migrations completed")
	}

	// Redis is optional: without it the fame cache and event subscriber are off
	var redisClient *redis.Client
	if cfg.EnableFameCache {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without fame cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("Redis connected")
		}
	}

	// Matching
	repo := matching.NewPostgresRepository(db)

	var ratingCache matching.RatingCache
	if redisClient != nil {
		ratingCache = matching.NewRedisRatingCache(redisClient)
	}

	fameService := matching.NewFameService(repo, ratingCache, cfg.FameCacheTTL, log.Named("fame"))
	matchingService := matching.NewService(repo, fameService, log.Named("matching"))
	matchingHandler := matching.NewHandler(matchingService, matching.HandlerConfig{
		MinAge:       cfg.MinAge,
		MaxAge:       cfg.MaxAge,
		MaxInterests: cfg.MaxInterests,
	}, log.Named("http"))

	if cfg.EnableFameScheduler {
		scheduler := matching.NewScheduler(repo, fameService, cfg.FameRefreshInterval, cfg.ActivityWindow, log.Named("scheduler"))
		scheduler.Start(ctx)
		log.Info("fame refresh scheduler started", zap.Duration("interval", cfg.FameRefreshInterval))
	}

	if redisClient != nil {
		refresher := matching.NewFameRefresher(fameService, log.Named("refresher"))
		subscriber := matching.NewEventSubscriber(redisClient, cfg.EngagementChannel, refresher, log.Named("events"))
		go func() {
			if err := subscriber.Run(ctx); err != nil {
				log.Error("engagement subscriber stopped", zap.Error(err))
			}
		}()
		log.Info("engagement subscriber started", zap.String("channel", cfg.EngagementChannel))
	}

	// Routes
	router := mux.NewRouter()
	router.Use(auth.RequestID)
	router.Use(auth.Logging(log.Named("http")))

	router.HandleFunc("/health", healthCheck).Methods("GET")
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret, log.Named("auth"))
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}
