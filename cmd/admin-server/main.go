// cmd/admin-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"recruit-admin/internal/apiclient"
	"recruit-admin/internal/common/aws"
	"recruit-admin/internal/common/config"
	"recruit-admin/internal/common/database"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/common/observability"
	"recruit-admin/internal/experience"
	"recruit-admin/internal/models"
	"recruit-admin/internal/notify"
	"recruit-admin/internal/records"
	"recruit-admin/internal/server"
	"recruit-admin/internal/session"
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

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting admin server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("admin-server")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			// Suggestions degrade to SQL, so a missing cluster is not fatal.
			zapLog.Warn("elasticsearch unavailable, continuing without it", zap.Error(err))
			esClient = nil
		} else {
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Session lifecycle ---
	authClient := session.NewAuthClient(cfg.Auth.BackendURL, cfg.Auth.AnonKey)
	sessions := session.New(authClient, session.NewMemoryStorage(), session.Options{
		TokenTTL:      time.Duration(cfg.Auth.TokenTTL) * time.Second,
		CheckInterval: time.Duration(cfg.Auth.ExpiryCheckInterval) * time.Second,
	}, log)
	sessions.Start(ctx)
	defer sessions.Close()

	// --- Resilient REST API client ---
	api := apiclient.New(sessions, apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     config.GetDuration(cfg.API.Timeout),
		WarmupDelay: config.GetDuration(cfg.API.WarmupDelay),
		WarmupPaths: cfg.API.WarmupPaths,
	}, log)

	// --- Record access layer ---
	store := records.NewStore(records.Deps{
		DB:          pg.DB,
		Cache:       redisClient.Client,
		ES:          rawES(esClient),
		ESIndex:     cfg.Database.Elasticsearch.Index,
		StatusFetch: api.StatusOptions,
		StatusTTL:   time.Duration(cfg.API.StatusTTL) * time.Second,
	}, log)

	// --- Probation lifecycle engine ---
	engine := experience.NewEngine(pg.DB, store, log)
	store.SetHiredHook(func(ctx context.Context, rec *models.ApplicantRecord) error {
		_, err := engine.Start(ctx, rec.ID, models.Contract40Days)
		return err
	})

	// --- Notifications (best-effort) ---
	var notifier *notify.Notifier
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SES client init failed, email notifications disabled", zap.Error(err))
		} else {
			notifier = notify.New(sesClient, cfg.Notifications.Email.FromEmail,
				cfg.Notifications.Email.TeamEmail, true, log)
		}
	}
	if notifier == nil {
		notifier = notify.New(nil, "", "", false, log)
	}
	store.SetStatusChangeHook(func(ctx context.Context, rec *models.ApplicantRecord, previous string) {
		if rec.Status == models.StatusHired {
			notifier.ApplicantHired(ctx, rec)
		}
	})

	sweeper := notify.NewSweeper(engine, notifier, time.Hour, log)
	sweeper.Start(ctx)
	defer sweeper.Close()

	// --- HTTP server ---
	srv := server.New(sessions, store, engine, api, obs, server.Options{
		Port:         cfg.Server.Port,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("admin server stopped")
}

func rawES(c *database.ElasticsearchClient) *elasticsearch.Client {
	if c == nil {
		return nil
	}
	return c.Client
}
