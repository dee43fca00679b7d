package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/config"
	dbElastic "github.com/kailas-cloud/leadex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/leadex/internal/db/redis"
	logpkg "github.com/kailas-cloud/leadex/internal/logger"
	"github.com/kailas-cloud/leadex/internal/metrics"
	"github.com/kailas-cloud/leadex/internal/repository/archive"
	"github.com/kailas-cloud/leadex/internal/repository/index"
	jobrepo "github.com/kailas-cloud/leadex/internal/repository/job"
	"github.com/kailas-cloud/leadex/internal/repository/mapping"
	chiTransport "github.com/kailas-cloud/leadex/internal/transport/chi"
	gen "github.com/kailas-cloud/leadex/internal/transport/generated"
	exportuc "github.com/kailas-cloud/leadex/internal/usecase/export"
	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
	"github.com/kailas-cloud/leadex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting leadex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addrs", cfg.Elasticsearch.Addrs),
		zap.String("es_index", cfg.Elasticsearch.Index),
		zap.String("jobs_driver", cfg.Jobs.Driver),
	)

	engine, err := dbElastic.NewEngine(dbElastic.Config{
		Addrs:    cfg.Elasticsearch.Addrs,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		APIKey:   cfg.Elasticsearch.APIKey,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}

	// Not fatal: the index may appear later, /leads answers 503 until it does.
	ctx := context.Background()
	if err := engine.Ping(ctx); err != nil {
		logger.Warn("Elasticsearch not reachable at startup", zap.Error(err))
	}

	metrics.RegisterLeadMetrics()

	// Job store: memory by default, Redis when configured.
	var (
		jobs        exportuc.JobStore
		redisPinger healthuc.Pinger
	)
	switch cfg.Jobs.Driver {
	case config.JobsDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")
		jobs = jobrepo.NewRedisStore(store, cfg.Jobs.TTL())
		redisPinger = store
	default:
		jobs = jobrepo.NewMemoryStore()
	}

	// Repositories
	resolver := index.New(engine, cfg.Elasticsearch.Index, cfg.Elasticsearch.FallbackIndices, logger)
	introspector := mapping.New(engine, metrics.MappingCacheTotal, logger)
	if cfg.Search.MappingCacheTTLSec > 0 {
		introspector = introspector.WithCache(
			cfg.Search.MappingCacheSize, time.Duration(cfg.Search.MappingCacheTTLSec)*time.Second,
		)
	}

	// Use case services
	searchSvc := searchuc.New(resolver, introspector, engine, logger).
		WithPageSizes(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	worker := exportuc.NewWorker(engine, jobs, logger).
		WithBatchSize(cfg.Export.BatchSize).
		WithKeepAlive(time.Duration(cfg.Export.ScrollKeepAliveSec) * time.Second).
		WithRateLimit(cfg.Export.MaxBatchesPerSec)
	pool := exportuc.NewPool(cfg.Export.MaxConcurrent)
	exportSvc := exportuc.New(searchSvc, jobs, worker, pool, logger).WithDir(cfg.Export.Dir)

	if a := cfg.Export.Archive; a.Enabled {
		arch, err := archive.NewStore(archive.Config{
			Endpoint:  a.Endpoint,
			AccessKey: a.AccessKey,
			SecretKey: a.SecretKey,
			Bucket:    a.Bucket,
			Prefix:    a.Prefix,
			Region:    a.Region,
			Secure:    a.Secure,
		})
		if err != nil {
			logger.Fatal("Failed to create export archive", zap.Error(err))
		}
		exportSvc.WithArchive(arch)
		logger.Info("Export archive enabled", zap.String("bucket", a.Bucket))
	}

	healthSvc := healthuc.New(engine, redisPinger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, exportSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys, cfg.Auth.AdminKeys))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	if err := exportSvc.Shutdown(shutdownCtx); err != nil {
		logger.Error("Exports did not stop in time", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logpkg.FromContext(r.Context(), logger).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
						Code:    gen.ErrorResponseCodeInternalError,
						Message: "internal error",
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
