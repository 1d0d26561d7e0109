package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/halcyon-media/imagery/internal/config"
	dbRedis "github.com/halcyon-media/imagery/internal/db/redis"
	"github.com/halcyon-media/imagery/internal/domain/imageproxy"
	"github.com/halcyon-media/imagery/internal/imaging"
	logpkg "github.com/halcyon-media/imagery/internal/logger"
	"github.com/halcyon-media/imagery/internal/metadata"
	"github.com/halcyon-media/imagery/internal/metrics"
	deadlinkrepo "github.com/halcyon-media/imagery/internal/repository/deadlink"
	indexrepo "github.com/halcyon-media/imagery/internal/repository/index"
	providerrepo "github.com/halcyon-media/imagery/internal/repository/provider"
	recordrepo "github.com/halcyon-media/imagery/internal/repository/record"
	viewsrepo "github.com/halcyon-media/imagery/internal/repository/views"
	"github.com/halcyon-media/imagery/internal/transport/httpapi"
	detailuc "github.com/halcyon-media/imagery/internal/usecase/detail"
	healthuc "github.com/halcyon-media/imagery/internal/usecase/health"
	searchuc "github.com/halcyon-media/imagery/internal/usecase/search"
	watermarkuc "github.com/halcyon-media/imagery/internal/usecase/watermark"
	"github.com/halcyon-media/imagery/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting imagery API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Repositories
	indexRepo := indexrepo.New(store, indexrepo.Config{
		IndexName:       cfg.Search.Index,
		KeyPrefix:       cfg.Search.KeyPrefix,
		MaxResultWindow: cfg.Search.MaxResultWindow,
	})
	recordRepo := recordrepo.New(store, cfg.Search.KeyPrefix)
	providerRepo := providerrepo.New(store)
	viewTracker := viewsrepo.New(store)
	deadLinks := deadlinkrepo.New(store, deadlinkrepo.Config{
		ProbeTimeout: time.Duration(cfg.DeadLink.ProbeTimeoutSec) * time.Second,
		CacheTTL:     time.Duration(cfg.DeadLink.CacheTTLSec) * time.Second,
		MaxParallel:  cfg.DeadLink.MaxParallel,
	}, metrics.DeadLinkProbesTotal, logger)

	// Image pipeline
	policy := imageproxy.NewPolicy(
		cfg.Proxy.Enabled, cfg.Proxy.BaseURL, cfg.Proxy.ThumbnailWidth, cfg.Proxy.ProxyAll,
	)
	fetcher := imaging.NewFetcher(
		time.Duration(cfg.Watermark.FetchTimeoutSec)*time.Second, cfg.Watermark.MaxSourceBytes,
	)
	renderer, err := imaging.NewRenderer(cfg.Watermark.JPEGQuality)
	if err != nil {
		logger.Fatal("Failed to create watermark renderer", zap.Error(err))
	}
	embedder := metadata.NewEmbedder(metrics.MetadataEmbedFailuresTotal)

	// Use case services
	searchSvc := searchuc.New(indexRepo, deadLinks, policy, cfg.Search.HitCeiling)
	detailSvc := detailuc.New(recordRepo, providerRepo, viewTracker, policy)
	watermarkSvc := watermarkuc.New(recordRepo, fetcher, renderer, embedder, cfg.Watermark.MaxConcurrent)
	healthSvc := healthuc.New(store)

	server := httpapi.NewServer(searchSvc, detailSvc, watermarkSvc, healthSvc, httpapi.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"detail": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
