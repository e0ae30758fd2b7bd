package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lifeboard/internal/assist"
	"lifeboard/internal/billing"
	"lifeboard/internal/config"
	apphttp "lifeboard/internal/http"
	"lifeboard/internal/identity"
	applog "lifeboard/internal/log"
	"lifeboard/internal/notify"
	"lifeboard/internal/store"
	"lifeboard/internal/store/memory"
	"lifeboard/internal/store/sqlite"
	"lifeboard/internal/upload"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting lifeboard server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()
	logger.Info("Store initialized", "backend", cfg.DataBackend)

	reconciler := notify.NewReconciler(st)
	bills := billing.NewService(st, reconciler, nil)
	who := identity.NewStatic(cfg.UserID, cfg.UserEmail)

	// Optional integrations: drafting and document storage
	var drafter apphttp.Drafter
	if cfg.GeminiAPIKey != "" {
		assistant, err := assist.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Assist disabled, client initialization failed", "error", err)
		} else {
			drafter = assistant
			logger.Info("Assist enabled", "model", cfg.GeminiModel)
		}
	}

	var uploader apphttp.Uploader
	if cfg.DriveFolderID != "" {
		driveUploader, err := upload.NewDriveUploader(context.Background(), cfg.DriveFolderID)
		if err != nil {
			logger.Warn("Document upload disabled, Drive initialization failed", "error", err)
		} else {
			uploader = driveUploader
			logger.Info("Document upload enabled", "folder_id", cfg.DriveFolderID)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, bills, st, reconciler, who, drafter, uploader)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DataBackend == "sqlite" {
		return sqlite.New(cfg.SQLiteDBPath)
	}
	return memory.New(), nil
}
