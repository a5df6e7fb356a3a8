// Command server runs the fee ledger API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sansa-learn/fee-ledger/config"
	"github.com/sansa-learn/fee-ledger/internal/application/command"
	"github.com/sansa-learn/fee-ledger/internal/application/query"
	"github.com/sansa-learn/fee-ledger/internal/infrastructure/assets"
	"github.com/sansa-learn/fee-ledger/internal/infrastructure/persistence/postgres"
	"github.com/sansa-learn/fee-ledger/internal/infrastructure/persistence/redis"
	httpiface "github.com/sansa-learn/fee-ledger/internal/interface/http"
	"github.com/sansa-learn/fee-ledger/pkg/logger"
	"github.com/sansa-learn/fee-ledger/pkg/retry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	log.Info("starting fee ledger",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL: the system of record. Retried because the database often
	// comes up after the application under docker-compose.
	var conn *postgres.Connection
	err = retry.Do(ctx, retry.Config{
		MaxAttempts:  cfg.Database.ConnectRetries,
		InitialDelay: cfg.Database.ConnectRetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			log.Warn("database connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		},
	}, func(ctx context.Context) error {
		var connErr error
		conn, connErr = postgres.NewConnection(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Run(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database ready")

	// Redis: optional accelerator. A nil cache degrades every balance read
	// to recomputation and disables admin sessions' persistence.
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		cache, err = redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer cache.Close()
		log.Info("redis ready")
	} else {
		log.Warn("redis disabled, balance caching and persistent sessions are off")
	}

	// Repositories
	students := postgres.NewStudentRepository(conn)
	sequences := postgres.NewSequenceRepository(conn)
	ledgerRepo := postgres.NewLedgerRepository(conn)
	branding := postgres.NewBrandingRepository(conn)

	assetStore, err := assets.NewFilesystemStore(cfg.Assets.Dir)
	if err != nil {
		return fmt.Errorf("failed to init asset store: %w", err)
	}

	balanceCache := redis.NewBalanceCache(cache, log)
	sessions := redis.NewSessionStore(cache)

	// Commands
	registerStudent := command.NewRegisterStudentHandler(students, sequences, ledgerRepo, balanceCache)
	updateStudent := command.NewUpdateStudentHandler(students)
	deleteStudent := command.NewDeleteStudentHandler(students, balanceCache)
	createObligation := command.NewCreateObligationHandler(students, ledgerRepo, balanceCache)
	bulkGenerate := command.NewBulkGenerateHandler(students, ledgerRepo, balanceCache)
	ensureObligations := command.NewEnsureObligationsHandler(students, ledgerRepo, balanceCache)
	recordPayment := command.NewRecordPaymentHandler(ledgerRepo, balanceCache)
	reversePayment := command.NewReversePaymentHandler(ledgerRepo, balanceCache)
	updateRemarks := command.NewUpdateRemarksHandler(ledgerRepo)
	updateBranding := command.NewUpdateBrandingHandler(branding)

	// Queries
	studentBalance := query.NewStudentBalanceHandler(ledgerRepo, balanceCache)
	listStudents := query.NewListStudentsHandler(students, studentBalance)
	feeHistory := query.NewFeeHistoryHandler(students, ledgerRepo, studentBalance)
	dashboard := query.NewDashboardHandler(students, ledgerRepo, balanceCache)
	exportRows := query.NewExportRowsHandler(ledgerRepo)
	documents := query.NewDocumentSnapshotHandler(students, ledgerRepo, branding, assetStore)

	// HTTP server
	serverCfg := httpiface.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.MaxUploadBytes = cfg.HTTP.MaxUploadBytes
	serverCfg.AdminUsername = cfg.Auth.AdminUsername
	serverCfg.AdminPasswordHash = cfg.Auth.AdminPasswordHash

	server := httpiface.NewServer(serverCfg, httpiface.Dependencies{
		RegisterStudent:   registerStudent,
		UpdateStudent:     updateStudent,
		DeleteStudent:     deleteStudent,
		CreateObligation:  createObligation,
		BulkGenerate:      bulkGenerate,
		EnsureObligations: ensureObligations,
		RecordPayment:     recordPayment,
		ReversePayment:    reversePayment,
		UpdateRemarks:     updateRemarks,
		UpdateBranding:    updateBranding,

		ListStudents:   listStudents,
		FeeHistory:     feeHistory,
		StudentBalance: studentBalance,
		Dashboard:      dashboard,
		ExportRows:     exportRows,
		Documents:      documents,

		Branding: branding,
		Assets:   assetStore,

		Sessions: sessions,
		Tokens:   httpiface.NewShareTokenSigner(cfg.Auth.DocumentTokenSecret, cfg.Auth.DocumentTokenTTL),

		Database: conn,
		Cache:    cacheChecker(cache),

		Logger: log,
	})

	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("fee ledger stopped")
	return nil
}

// cacheChecker adapts an optional cache to the readiness interface.
func cacheChecker(cache *redis.Cache) httpiface.HealthChecker {
	if cache == nil {
		return nil
	}
	return cache
}
