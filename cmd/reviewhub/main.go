// cmd/reviewhub/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/config"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/connector"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/review"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Review hub failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	conn, err := connector.NewConnectorFactory(cfg, logger).Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if err := conn.Validate(); err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}

	var ds store.Datastore
	switch cfg.Driver {
	case "postgres":
		ds = store.NewPostgresStore(conn, 0, logger)
	default:
		ds = store.NewSnowflakeStore(conn, 0, logger)
	}

	loader := store.NewCachedLoader(ds, cfg.Review.CacheTTL, logger)
	session := review.NewSession(cfg.Review, ds, loader, logger)

	if err := session.Load(ctx); err != nil {
		return err
	}

	view := session.View()
	logger.Info("Review table ready",
		zap.String("table", cfg.Review.Table),
		zap.Strings("columns", session.Columns()),
		zap.Int("visible_rows", view.Len()))

	for col, tag := range session.Tags() {
		field := zap.Skip()
		if tag.HasBounds {
			field = zap.String("bounds", fmt.Sprintf("%s .. %s",
				tag.MinBound.Format("2006-01-02"), tag.MaxBound.Format("2006-01-02")))
		}
		logger.Info("Column tagged",
			zap.String("column", col),
			zap.String("type", tag.Type.String()),
			field)
	}
	return nil
}

func buildLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
