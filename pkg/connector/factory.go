// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Create builds the connector selected by the configured driver
func (f *ConnectorFactory) Create(ctx context.Context) (DatabaseConnector, error) {
	switch f.cfg.Driver {
	case "snowflake":
		f.logger.Info("Creating Snowflake connector")
		conn, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake)
		if err != nil {
			return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
		}
		return conn, nil
	case "postgres":
		f.logger.Info("Creating PostgreSQL connector")
		conn, err := NewPostgresConnector(ctx, f.cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.cfg.Driver)
	}
}
