package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/session-service/internal/api"
	c "github.com/fjod/go_cart/session-service/internal/cache"
	"github.com/fjod/go_cart/session-service/internal/config"
	h "github.com/fjod/go_cart/session-service/internal/http"
	"github.com/fjod/go_cart/session-service/internal/modal"
	"github.com/fjod/go_cart/session-service/internal/poller"
	"github.com/fjod/go_cart/session-service/internal/publisher"
	s "github.com/fjod/go_cart/session-service/internal/service"
	"github.com/fjod/go_cart/session-service/internal/session"
	"github.com/fjod/go_cart/session-service/pkg/circuitbreaker"
	"github.com/fjod/go_cart/session-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lg = lg.With(zap.String("session_id", sessionID))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		lg.Fatal("Redis connection failed", zap.Error(err))
	}
	lg.Info("Redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	cache := c.NewRedisCache(redisClient, cfg.SnapshotTTL)
	store := session.NewStore(c.Restore(ctx, cache, sessionID, lg), lg)

	breaker := circuitbreaker.DefaultSettings("ordering-backend")
	breaker.ConsecutiveFailures = cfg.BreakerFailures
	breaker.Timeout = cfg.BreakerTimeout
	backend := api.NewClient(cfg.BackendURL, cfg.BackendTimeout, breaker, lg)

	modals := modal.NewOrchestrator(store, lg)

	events := publisher.NewPublisher(cfg.CheckoutTopic, lg, cfg.Brokers()...)
	defer events.Close()

	service := s.NewService(store, backend, modals, events, sessionID, lg)

	authPoller := poller.NewPoller(cfg.AuthTopic, cfg.ConsumerGroup, sessionID, modals, lg, cfg.Brokers()...)
	defer authPoller.Close()

	persister := c.NewPersister(cache, store, sessionID, lg)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		persister.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		authPoller.Run(ctx)
	}()

	handler := h.NewSessionHandler(service, modals, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(handler, cfg.RequestTimeout, lg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Info("Session service starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	stop()
	wg.Wait()
	lg.Info("server exited")
}
