package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/semubook/semubook/internal/ai"
	"github.com/semubook/semubook/internal/app"
	"github.com/semubook/semubook/internal/coa"
	"github.com/semubook/semubook/internal/ledger"
	"github.com/semubook/semubook/internal/platform/cache"
	"github.com/semubook/semubook/internal/platform/db"
	"github.com/semubook/semubook/internal/receipts"
	"github.com/semubook/semubook/internal/statements"
	"github.com/semubook/semubook/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	accountService := coa.NewService(coa.NewPgRepository(pool))
	statementCache := statements.NewCache(redisClient, cfg.StatementCacheTTL)
	ledgerService := ledger.NewService(ledger.NewPgRepository(pool), accountService).
		WithInvalidator(statementCache)
	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	receiptService := receipts.NewService(receipts.NewPgRepository(pool), ledgerService, cfg.ClearingAccountCode).
		WithEnqueuer(queue)

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AITimeout, logger)
	processor := jobs.NewReceiptProcessor(receiptService, aiClient, logger)
	integrity := jobs.NewLedgerIntegrity(ledgerService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReceiptProcess, Handler: processor.Handle},
			{Type: jobs.TaskTypeLedgerIntegrity, Handler: integrity.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewLedgerIntegrityTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
