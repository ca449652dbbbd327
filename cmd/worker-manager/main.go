// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"traveler-classifier/internal/api"
	"traveler-classifier/internal/common/camunda"
	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/database"
	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/common/observability"
	"traveler-classifier/internal/session"
	"traveler-classifier/pkg/registry"

	ct "traveler-classifier/internal/workers/classification/classify-traveler"
	sr "traveler-classifier/internal/workers/classification/suggest-routes"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{
		"environment":    cfg.App.Environment,
		"sessionBackend": cfg.Session.Backend,
		"baselineSource": cfg.Baseline.Source,
	})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()
	checks := map[string]api.ReadinessCheck{}

	// --- PostgreSQL (baseline source only) ---
	var pg *database.PostgresClient
	if cfg.Baseline.Source == config.BaselineSourcePostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.Connect(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		checks["postgres"] = pg.Ping
		log.Info("PostgreSQL connected", nil)
	}

	baseline, err := resolveBaseline(ctx, cfg, pg)
	if err != nil {
		zapLog.Fatal("baseline load failed", zap.Error(err))
	}
	log.Info("baseline loaded", map[string]interface{}{"source": baseline.Source})

	// --- Redis (session backend only) ---
	var redisClient *database.RedisClient
	if cfg.Session.Backend == config.SessionBackendRedis {
		redisClient = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		checks["redis"] = redisClient.Ping
		log.Info("Redis connected", nil)
	}

	store, err := session.NewStore(cfg, redisClient)
	if err != nil {
		zapLog.Fatal("session store init failed", zap.Error(err))
	}

	// --- Zeebe workers ---
	var workers []*camunda.Worker
	if config.AnyWorkerEnabled(cfg) {
		reg, err := registry.LoadRegistry(cfg.RegistryPath)
		if err != nil {
			zapLog.Fatal("activity registry load failed", zap.Error(err))
		}
		if err := checkRegistered(cfg, reg); err != nil {
			zapLog.Fatal("worker configuration rejected", zap.Error(err))
		}

		zeebe, err := camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed", zap.Error(err))
		}
		defer zeebe.Close()
		checks["zeebe"] = zeebe.HealthCheck
		log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

		if wcfg := config.GetWorkerConfig(cfg, ct.TaskType); wcfg.Enabled {
			handler := ct.NewHandler(
				&ct.Config{
					Timeout:        config.GetDuration(wcfg.Timeout),
					RecordSessions: true,
				},
				store, obs, log,
			)
			workers = append(workers, zeebe.StartWorker(ct.TaskType, wcfg, handler, log))
		}

		if wcfg := config.GetWorkerConfig(cfg, sr.TaskType); wcfg.Enabled {
			handler := sr.NewHandler(
				&sr.Config{
					Timeout:  config.GetDuration(wcfg.Timeout),
					Baseline: baseline,
				},
				log,
			)
			workers = append(workers, zeebe.StartWorker(sr.TaskType, wcfg, handler, log))
		}
	}

	// --- HTTP API ---
	var server *api.Server
	if cfg.Server.Enabled {
		server = api.NewServer(cfg.Server, api.Dependencies{
			Store:         store,
			Baseline:      baseline,
			Observability: obs,
			Logger:        log,
			Checks:        checks,
			Version:       cfg.App.Version,
		})
		go func() {
			if err := server.Start(); err != nil {
				zapLog.Fatal("http server failed", zap.Error(err))
			}
		}()
	}

	if len(workers) == 0 && server == nil {
		log.Warn("no workers enabled and HTTP server disabled; nothing to run", nil)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping", map[string]interface{}{"workers": len(workers)})

	for _, w := range workers {
		w.Stop()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Error("http server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("worker manager stopped", nil)
}
