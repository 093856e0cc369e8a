package main

import (
	"ashtray_server/api"
	"ashtray_server/config"
	"ashtray_server/database"
	"ashtray_server/services"
	"ashtray_server/structs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.GetInstance()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", gecho.Field("error", err))
		}
	}

	sm := services.NewServiceManager(logger, cfg, db)
	if err := sm.AuthService.EnsureAdmin(ctx); err != nil {
		logger.Error("Failed to create bootstrap admin", gecho.Field("error", err))
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Failed to start server", gecho.Field("error", err))
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdown(server, sm)
}

// shutdown drains in-flight requests, then releases the database and cache connections.
func shutdown(server *http.Server, sm *services.ServiceManager) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown did not complete", gecho.Field("error", err))
	}

	if err := sm.CacheService.Close(); err != nil {
		logger.Warn("Failed to close cache connection", gecho.Field("error", err))
	}

	if err := database.CloseInstance(); err != nil {
		logger.Warn("Failed to close database connection", gecho.Field("error", err))
	}

	logger.Info("Server stopped")
}
