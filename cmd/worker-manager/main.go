// cmd/worker-manager/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matching-workers/internal/common/camunda"
	"matching-workers/internal/common/config"
	"matching-workers/internal/common/database"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/observability"
	"matching-workers/internal/common/validation"
	"matching-workers/internal/matching"
	"matching-workers/internal/repository/cache"
	"matching-workers/internal/repository/postgres"
	"matching-workers/internal/repository/search"
	"matching-workers/pkg/registry"

	cm "matching-workers/internal/workers/matching/compute-match"
	rj "matching-workers/internal/workers/matching/recommend-jobs"
	rf "matching-workers/internal/workers/matching/record-feedback"
	sc "matching-workers/internal/workers/matching/scout-candidates"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// readinessCheck is one dependency probed by /ready.
type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting matching worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("jobSource", cfg.Matching.JobSource),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()
	if err := obs.EnableTracing(cfg.App.Name, cfg.App.Version, cfg.Observability.JaegerEndpoint, cfg.Observability.SampleRatio); err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	}

	reg, err := loadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	ctx := context.Background()
	var checks []readinessCheck

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks = append(checks, readinessCheck{"zeebe", zeebe.HealthCheck})
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	checks = append(checks, readinessCheck{"postgres", pg.Ping})
	zapLog.Info("PostgreSQL connected successfully")

	store := postgres.NewStore(pg.DB)
	var profiles matching.ProfileReader = store
	var jobs matching.JobReader = store

	// --- Elasticsearch (optional job source) ---
	if cfg.Matching.JobSource == config.JobSourceElasticsearch {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checks = append(checks, readinessCheck{"elasticsearch", esClient.Ping})
		jobs = search.NewJobReader(esClient.Client, cfg.Matching.JobsIndex, cfg.Matching.MaxPostings, log)
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Matching.JobsIndex))
	}

	// --- Redis (optional read-through cache) ---
	if cfg.Matching.ProfileCacheTTL > 0 || cfg.Matching.ActiveJobsCacheTTL > 0 {
		rdb := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks = append(checks, readinessCheck{"redis", rdb.Ping})

		cached := cache.New(profiles, jobs, rdb.Client, cache.Config{
			ProfileTTL:    config.GetDuration(cfg.Matching.ProfileCacheTTL),
			ActiveJobsTTL: config.GetDuration(cfg.Matching.ActiveJobsCacheTTL),
		}, log)
		profiles, jobs = cached, cached
		zapLog.Info("Redis connected successfully")
	}

	engine := matching.NewEngine(profiles, jobs, store, log,
		matching.WithWeights(cfg.Matching.Weights),
		matching.WithConcurrency(cfg.Matching.Concurrency),
		matching.WithTracer(obs.Tracer("matching-workers/matching")),
	)
	zapLog.Info("Matching engine ready", zap.Any("weights", engine.Weights()))

	// --- Workers ---
	workers := registerWorkers(cfg, zeebe, engine, reg, obs, log, zapLog)
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.App.Port, checks)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	var (
		reg *registry.ActivityRegistry
		err error
	)
	if path == "" {
		reg, err = registry.Default()
	} else {
		reg, err = registry.LoadRegistry(path)
	}
	if err != nil {
		return nil, err
	}
	return reg, reg.Validate()
}

func registerWorkers(
	cfg *config.Config,
	zeebe *camunda.Client,
	engine *matching.Engine,
	reg *registry.ActivityRegistry,
	obs *observability.Observability,
	log logger.Logger,
	zapLog *zap.Logger,
) []*camunda.Worker {
	var workers []*camunda.Worker

	start := func(taskType string, build func(timeout time.Duration, v *validation.Validator, r *camunda.JobReporter) worker.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)

		v, err := validation.ForActivity(reg, taskType)
		if err != nil {
			zapLog.Fatal("failed to load input schema", zap.String("taskType", taskType), zap.Error(err))
		}
		timeout := config.GetDuration(wcfg.Timeout)
		handler := build(timeout, v, camunda.NewJobReporter(taskType, obs, log))

		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       timeout,
		}, handler, log))
	}

	start(cm.TaskType, func(timeout time.Duration, v *validation.Validator, r *camunda.JobReporter) worker.JobHandler {
		return cm.NewHandler(&cm.Config{Timeout: timeout}, engine, v, r, log).Handle
	})
	start(rj.TaskType, func(timeout time.Duration, v *validation.Validator, r *camunda.JobReporter) worker.JobHandler {
		return rj.NewHandler(&rj.Config{Timeout: timeout}, engine, v, r, log).Handle
	})
	start(rf.TaskType, func(timeout time.Duration, v *validation.Validator, r *camunda.JobReporter) worker.JobHandler {
		return rf.NewHandler(&rf.Config{Timeout: timeout}, engine, v, r, log).Handle
	})
	start(sc.TaskType, func(timeout time.Duration, v *validation.Validator, r *camunda.JobReporter) worker.JobHandler {
		return sc.NewHandler(&sc.Config{Timeout: timeout}, engine, v, r, log).Handle
	})

	return workers
}

func newHealthServer(port int, checks []readinessCheck) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		deps := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				deps[c.name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			deps[c.name] = "ok"
		}
		writeStatus(w, code, map[string]interface{}{
			"status":       status,
			"dependencies": deps,
			"time":         time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
