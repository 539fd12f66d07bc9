package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tender-reporter/internal/analytics"
	"tender-reporter/internal/config"
	"tender-reporter/internal/email"
	"tender-reporter/internal/pdf"
	"tender-reporter/internal/server/api"
	"tender-reporter/internal/server/hub"
	"tender-reporter/internal/server/middleware"
	"tender-reporter/internal/storage"
	"tender-reporter/internal/store"
	"tender-reporter/internal/worker"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 0. Load Config
	cfg := config.Load()

	slog.Info("Starting Tender Reporter", "env", cfg.AppEnv)

	// 1. Initialize Store (Database)
	if cfg.MySQLDSN == "" {
		slog.Error("MYSQL_DSN not set")
		os.Exit(1)
	}

	st, err := store.NewStore(cfg.MySQLDSN)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	// 2. Run Migration
	if err := st.InitSchema(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database Connected & Schema Initialized")

	// 3. PDF Theme
	theme := pdf.DefaultTheme()
	if cfg.ThemePath != "" {
		theme, err = pdf.LoadTheme(cfg.ThemePath)
		if err != nil {
			slog.Error("Failed to load theme", "path", cfg.ThemePath, "error", err)
			os.Exit(1)
		}
		slog.Info("Loaded theme override", "path", cfg.ThemePath)
	}
	generator := pdf.NewGenerator(theme)

	// 4. Storage Provider
	provider, err := buildStorage(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "type", cfg.StorageType, "error", err)
		os.Exit(1)
	}

	// 5. Email Sender
	var sender email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
		slog.Info("Email notifications enabled", "host", cfg.SMTPHost)
	} else {
		sender = email.NewLogSender()
		slog.Warn("SMTP not configured, logging emails instead")
	}

	// 6. Analytics Client
	client := analytics.NewHTTPClient(cfg.AnalyticsURL, cfg.AnalyticsSecret, cfg.AnalyticsTimeout)

	// 7. Hub (WebSocket Manager) & Worker Pool
	h := hub.NewHub()
	pool := worker.NewPool(cfg.WorkerCount, cfg.MaxUpstreamConcurrency, client, generator, provider, sender, cfg.CompressDatasets, cfg.AttachFile)
	pool.SetHistory(st)
	pool.SetNotifier(h)
	pool.Start()
	defer pool.Stop()

	// 8. Handlers, Routes & Middleware
	handler := api.NewHandler(st, pool, h, provider, cfg.APISecret, cfg.DefaultTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/reports", handler.HandleReports)
	mux.HandleFunc("/reports/", handler.HandleReportByID)
	mux.HandleFunc("/filters", handler.HandleFilters)
	mux.HandleFunc("/dashboard/stream", handler.HandleDashboard)

	finalHandler := middleware.CORS(cfg.AllowedOrigins, cfg.AppEnv)(mux)

	slog.Info("Reporter listening", "port", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, finalHandler); err != nil {
		slog.Error("Server failed", "error", err)
	}
}

func buildStorage(cfg *config.Config) (storage.Provider, error) {
	if cfg.StorageType != "s3" {
		slog.Info("Using local storage", "path", cfg.LocalStoragePath)
		return storage.NewLocalProvider(cfg.LocalStoragePath), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = &cfg.S3Endpoint
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	slog.Info("Using S3 storage", "bucket", cfg.S3Bucket, "region", cfg.AWSRegion)
	return storage.NewS3Provider(client, cfg.S3Bucket), nil
}
