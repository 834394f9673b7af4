package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gorm.io/gorm"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/repository"
)

// loadConfigAndLogger は設定を読み込み、その設定でデフォルトロガーを差し替えます
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	//　設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}

	logger := newLogger(cfg.Log, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON のハンドラでロガーを作ります
func newLogger(cfg config.LogConfig, appEnv string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Level))
	}

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}

// openDatabase はDBに接続し、設定に応じてマイグレーションします。closeFn で接続を閉じる
func openDatabase(cfg *config.Config, logger *slog.Logger, migrate bool) (*gorm.DB, func(), error) {
	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error getting underlying sql.DB from GORM: %w", err)
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", slog.Any("error", err))
		} else {
			logger.Info("Database connection closed.")
		}
	}

	if migrate {
		if err := repository.AutoMigrate(db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("auto migration failed: %w", err)
		}
		logger.Info("Database schema migrated")
	}
	return db, closeFn, nil
}
