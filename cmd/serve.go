package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/handlers"
	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/repository"
	"go_vocab_cards/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	logger.Info("Application starting...", slog.String("version", config.AppVersion))

	db, closeDB, err := openDatabase(cfg, logger, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer closeDB()

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	termRepo := repository.NewGormTermRepository()
	assignmentRepo := repository.NewGormAssignmentRepository()
	linkRepo := repository.NewGormUserAssignmentRepository()
	userTermRepo := repository.NewGormUserTermRepository()
	statsRepo := repository.NewGormStatsRepository()

	accountService := service.NewAccountService(db, userRepo, statsRepo, cfg.JWT)
	assignmentService := service.NewAssignmentService(db, userRepo, termRepo, assignmentRepo, linkRepo)
	termService := service.NewTermService(db, termRepo, assignmentRepo, linkRepo, userTermRepo)

	ctx := middleware.WithLogger(cmd.Context(), logger)
	if _, err := accountService.SeedDefaultUsers(ctx, cfg.Seed); err != nil {
		return err
	}

	r := newRouter(cfg, logger, db, handlers.Handlers{
		Account:    handlers.NewAccountHandler(accountService),
		Assignment: handlers.NewAssignmentHandler(assignmentService),
		Term:       handlers.NewTermHandler(termService),
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful Shutdown
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-cmd.Context().Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}
	logger.Info("Server exiting")
	return nil
}

func newRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, h handlers.Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	if cfg.Log.RequestDetail {
		r.Use(middleware.RequestDetailLoggingMiddleware(logger))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	handlers.RegisterRoutes(r, h, cfg.JWT)
	r.Get("/health", handlers.HealthCheck(db))
	return r
}
