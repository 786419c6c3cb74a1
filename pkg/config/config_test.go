// pkg/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReviewConfigDefaults(t *testing.T) {
	t.Setenv("REVIEW_TABLE", "shop_orders")
	t.Setenv("REVIEW_PRIMARY_KEY", "order_id")

	cfg, err := LoadReviewConfig()
	require.NoError(t, err)

	assert.Equal(t, "shop_orders", cfg.Table)
	assert.Equal(t, []string{"order_id"}, cfg.PrimaryKey)
	assert.Equal(t, "public", cfg.Schema)
	assert.Equal(t, "shop_orders_pending_changes", cfg.PendingTable)
	assert.Equal(t, 500, cfg.MaxRows)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.LockColumn)
}

func TestLoadReviewConfigCompositeKey(t *testing.T) {
	t.Setenv("REVIEW_TABLE", "shop_orders")
	t.Setenv("REVIEW_PRIMARY_KEY", "region, order_id")
	t.Setenv("REVIEW_LOCK_COLUMN", "last_updated")
	t.Setenv("REVIEW_ORDER_BY", "order_id")
	t.Setenv("REVIEW_MAX_ROWS", "50")
	t.Setenv("REVIEW_CACHE_TTL_SECONDS", "120")

	cfg, err := LoadReviewConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "order_id"}, cfg.PrimaryKey)
	assert.Equal(t, "last_updated", cfg.LockColumn)
	assert.Equal(t, "order_id", cfg.OrderBy)
	assert.Equal(t, 50, cfg.MaxRows)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
}

func TestLoadReviewConfigRequiresTableAndKey(t *testing.T) {
	t.Setenv("REVIEW_TABLE", "")
	t.Setenv("REVIEW_PRIMARY_KEY", "order_id")
	_, err := LoadReviewConfig()
	assert.Error(t, err)

	t.Setenv("REVIEW_TABLE", "shop_orders")
	t.Setenv("REVIEW_PRIMARY_KEY", "")
	_, err = LoadReviewConfig()
	assert.Error(t, err)
}

func TestValidateRejectsLockColumnInKey(t *testing.T) {
	cfg := &Config{
		Postgres: &PostgresConfig{},
		Review: &ReviewConfig{
			Table:      "shop_orders",
			PrimaryKey: []string{"order_id"},
			LockColumn: "order_id",
			MaxRows:    500,
		},
	}
	assert.Error(t, cfg.Validate())

	cfg.Review.LockColumn = "last_updated"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadRowAndTTLSettings(t *testing.T) {
	cfg := &Config{
		Postgres: &PostgresConfig{},
		Review: &ReviewConfig{
			Table:      "shop_orders",
			PrimaryKey: []string{"order_id"},
			MaxRows:    0,
		},
	}
	assert.Error(t, cfg.Validate())

	cfg.Review.MaxRows = 10
	cfg.Review.CacheTTL = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("REVIEW_DRIVER", "oracle")
	t.Setenv("REVIEW_TABLE", "shop_orders")
	t.Setenv("REVIEW_PRIMARY_KEY", "order_id")

	_, err := LoadConfig()
	assert.Error(t, err)
}
