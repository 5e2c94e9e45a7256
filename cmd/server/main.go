package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/config"
	"github.com/billed-app/billed-server/internal/export"
	httpadapter "github.com/billed-app/billed-server/internal/interfaces/http"
	"github.com/billed-app/billed-server/internal/notify"
	"github.com/billed-app/billed-server/internal/repository"
	"github.com/billed-app/billed-server/internal/service"
	"github.com/billed-app/billed-server/internal/storage"
	"github.com/billed-app/billed-server/pkg/database"
	"github.com/billed-app/billed-server/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("BILLED_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting billed server",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(os.DirFS(cfg.Database.MigrationsDir)); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	receipts, err := storage.NewReceiptStorage(cfg.Storage.ReceiptsDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize receipt storage", zap.Error(err))
	}

	var publisher *notify.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to connect AMQP publisher", zap.Error(err))
		}
		defer publisher.Close()
	}

	billRepo := repository.NewBillRepository(db.DB, logger)
	billService := service.NewBillService(billRepo, receipts, publisher, logger)

	handlers := httpadapter.NewHandlers(
		billService,
		export.NewReportWriter(logger),
		cfg.Server.MaxUploadBytes,
		logger,
	)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		ReceiptsDir:    cfg.Storage.ReceiptsDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited")
}
