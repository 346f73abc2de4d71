// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"origination-workers/internal/common/camunda"
	"origination-workers/internal/common/config"
	"origination-workers/internal/common/database"
	"origination-workers/internal/common/logger"
	"origination-workers/internal/common/observability"
	"origination-workers/internal/common/portal"

	// Intake Workers (3)
	ce "origination-workers/internal/workers/intake/check-eligibility"
	sa "origination-workers/internal/workers/intake/submit-application"
	vis "origination-workers/internal/workers/intake/validate-intake-step"

	// Underwriting Workers (3)
	cf "origination-workers/internal/workers/underwriting/calculate-foir"
	ep "origination-workers/internal/workers/underwriting/evaluate-proposal"
	rr "origination-workers/internal/workers/underwriting/recommend-rate"

	// Communication Workers (1)
	dn "origination-workers/internal/workers/communication/decision-notification"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Portal Clients ---
	eligibilityPortal := portal.NewEligibilityClient(
		cfg.Portal.Eligibility.BaseURL,
		cfg.Portal.Eligibility.APIKey,
		time.Duration(cfg.Portal.Eligibility.Timeout)*time.Millisecond,
	)
	affordabilityPortal := portal.NewAffordabilityClient(
		cfg.Portal.Affordability.BaseURL,
		cfg.Portal.Affordability.APIKey,
		time.Duration(cfg.Portal.Affordability.Timeout)*time.Millisecond,
	)
	verificationPortal := portal.NewVerificationClient(
		cfg.Portal.Verification.BaseURL,
		cfg.Portal.Verification.APIKey,
		time.Duration(cfg.Portal.Verification.Timeout)*time.Millisecond,
	)
	applicationsPortal := portal.NewApplicationsClient(
		cfg.Portal.Applications.BaseURL,
		cfg.Portal.Applications.APIKey,
		time.Duration(cfg.Portal.Applications.Timeout)*time.Millisecond,
	)

	zapLog.Info("All portal clients initialized")

	// --- START: Register ALL 7 Workers ---

	// --- 1. Intake Workers (3) ---
	if cfg.Workers[ce.TaskType].Enabled {
		handler := ce.NewHandler(
			&ce.Config{
				CacheTTL: time.Duration(cfg.Portal.EligibilityCacheTTL) * time.Second,
				Timeout:  time.Duration(cfg.Workers[ce.TaskType].Timeout) * time.Millisecond,
			},
			eligibilityPortal, redis.Client, log,
		)
		startWorker(zeebeClient, ce.TaskType, cfg.Workers[ce.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[vis.TaskType].Enabled {
		handler := vis.NewHandler(
			&vis.Config{
				Timeout:     time.Duration(cfg.Workers[vis.TaskType].Timeout) * time.Millisecond,
				PreviewRate: cfg.Underwriting.PreviewRate,
			},
			applicationsPortal, log,
		)
		startWorker(zeebeClient, vis.TaskType, cfg.Workers[vis.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sa.TaskType].Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Timeout: time.Duration(cfg.Workers[sa.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, applicationsPortal, log,
		)
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Underwriting Workers (3) ---
	if cfg.Workers[cf.TaskType].Enabled {
		handler := cf.NewHandler(
			&cf.Config{
				Timeout:       time.Duration(cfg.Workers[cf.TaskType].Timeout) * time.Millisecond,
				PortalTimeout: time.Duration(cfg.Portal.Affordability.Timeout) * time.Millisecond,
			},
			affordabilityPortal, log,
		)
		startWorker(zeebeClient, cf.TaskType, cfg.Workers[cf.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[rr.TaskType].Enabled {
		handler := rr.NewHandler(
			&rr.Config{
				Timeout: time.Duration(cfg.Workers[rr.TaskType].Timeout) * time.Millisecond,
			},
			verificationPortal, log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ep.TaskType].Enabled {
		handler := ep.NewHandler(
			&ep.Config{
				Timeout:    time.Duration(cfg.Workers[ep.TaskType].Timeout) * time.Millisecond,
				AuditIndex: cfg.Underwriting.AuditIndex,
			},
			ep.NewESAuditSink(esClient.Client, cfg.Underwriting.AuditIndex), log,
		)
		startWorker(zeebeClient, ep.TaskType, cfg.Workers[ep.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Communication Workers (1) ---
	if cfg.Workers[dn.TaskType].Enabled {
		handler, err := dn.NewHandler(
			&dn.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(cfg.Workers[dn.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create decision-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, dn.TaskType, cfg.Workers[dn.TaskType], handler.Handle, zapLog)
	}
	zapLog.Info("All 7 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
