// pkg/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/connector"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// PostgresStore implements Datastore against PostgreSQL. The connection is
// scoped to one database, so TableRef.Database is ignored here.
type PostgresStore struct {
	conn         connector.DatabaseConnector
	db           *sqlx.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewPostgresStore creates a PostgreSQL-backed datastore
func NewPostgresStore(conn connector.DatabaseConnector, queryTimeout time.Duration, logger *zap.Logger) *PostgresStore {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Minute
	}
	return &PostgresStore{
		conn:         conn,
		db:           sqlx.NewDb(conn.DB(), conn.Driver()),
		logger:       logger.Named("postgres-store"),
		queryTimeout: queryTimeout,
	}
}

func (s *PostgresStore) ident(storage string) string {
	return strings.ToLower(storage)
}

func (s *PostgresStore) qualified(ref TableRef) string {
	if ref.Schema != "" {
		return s.ident(ref.Schema) + "." + s.ident(ref.Table)
	}
	return s.ident(ref.Table)
}

// LoadTable reads the full table, schema-agnostically, via MapScan
func (s *PostgresStore) LoadTable(ctx context.Context, ref TableRef, orderBy string) (*model.Dataset, error) {
	query := "SELECT * FROM " + s.qualified(ref)
	if orderBy != "" {
		query += " ORDER BY " + s.ident(orderBy)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	ds, err := loadDataset(queryCtx, s.db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", ref, err)
	}

	s.logger.Info("Loaded table",
		zap.String("table", ref.String()),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)))
	return ds, nil
}

// ColumnLimits fetches declared length/precision constraints from the
// information schema
func (s *PostgresStore) ColumnLimits(ctx context.Context, ref TableRef) (map[string]model.ColumnLimit, error) {
	query := `
		SELECT column_name, data_type, character_maximum_length, numeric_precision, numeric_scale
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2`

	var limits map[string]model.ColumnLimit
	err := s.conn.QueryWithTimeout(ctx, query, s.queryTimeout, func(rows *sql.Rows) error {
		var scanErr error
		limits, scanErr = scanColumnLimits(rows)
		return scanErr
	}, s.ident(ref.Schema), s.ident(ref.Table))
	if err != nil {
		return nil, fmt.Errorf("failed to query column limits for %s: %w", ref, err)
	}
	return limits, nil
}

// MergeRows updates the changed columns of the matched rows inside one
// transaction, so the batch commits or rolls back as one unit
func (s *PostgresStore) MergeRows(
	ctx context.Context,
	ref TableRef,
	keyCols, updateCols []string,
	lockCol string,
	rows *model.Dataset,
) error {
	if rows.Len() == 0 {
		return nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(queryCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}

	set := make([]string, 0, len(updateCols)+1)
	n := 1
	for _, c := range updateCols {
		set = append(set, fmt.Sprintf("%s = $%d", s.ident(c), n))
		n++
	}
	if lockCol != "" {
		set = append(set, s.ident(lockCol)+" = now()")
	}

	where := make([]string, 0, len(keyCols))
	for _, k := range keyCols {
		where = append(where, fmt.Sprintf("%s = $%d", s.ident(k), n))
		n++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		s.qualified(ref), strings.Join(set, ", "), strings.Join(where, " AND "))

	for _, row := range rows.Rows {
		args := make([]interface{}, 0, len(updateCols)+len(keyCols))
		for _, c := range updateCols {
			args = append(args, row.Get(model.DisplayName(c)).DriverValue())
		}
		for _, k := range keyCols {
			args = append(args, row.Get(model.DisplayName(k)).DriverValue())
		}
		if _, err := tx.ExecContext(queryCtx, query, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("merge into %s failed: %w", ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge into %s: %w", ref, err)
	}

	s.logger.Debug("Merged rows",
		zap.String("table", ref.String()),
		zap.Int("rows", rows.Len()))
	return nil
}

// TableExists reports whether the table exists
func (s *PostgresStore) TableExists(ctx context.Context, ref TableRef) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`

	var exists bool
	err := s.conn.QueryWithTimeout(ctx, query, s.queryTimeout, func(rows *sql.Rows) error {
		if rows.Next() {
			if err := rows.Scan(&exists); err != nil {
				return fmt.Errorf("failed to scan table existence: %w", err)
			}
		}
		return nil
	}, s.ident(ref.Schema), s.ident(ref.Table))
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", ref, err)
	}
	return exists, nil
}

// CreateTable creates a table from a dialect-neutral spec
func (s *PostgresStore) CreateTable(ctx context.Context, ref TableRef, spec TableSpec) error {
	defs := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		def := s.ident(col.Name) + " " + s.columnType(col.Type)
		switch col.Default {
		case DefaultWriteTime:
			def += " DEFAULT now()"
		case DefaultPendingStatus:
			def += fmt.Sprintf(" DEFAULT '%s'", model.ApprovalPending)
		}
		defs[i] = def
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		s.qualified(ref), strings.Join(defs, ",\n\t"))

	if _, err := s.conn.ExecWithTimeout(ctx, query, s.queryTimeout); err != nil {
		return fmt.Errorf("failed to create table %s: %w", ref, err)
	}

	s.logger.Info("Created table", zap.String("table", ref.String()))
	return nil
}

func (s *PostgresStore) columnType(t ColumnType) string {
	switch t {
	case ColumnPayload:
		return "JSONB"
	case ColumnTimestamp:
		return "TIMESTAMP WITH TIME ZONE"
	default:
		return "TEXT"
	}
}

// InsertPending appends queue entries, with current_user and the table
// defaults supplying the audit fields
func (s *PostgresStore) InsertPending(
	ctx context.Context,
	ref TableRef,
	keyCols []string,
	entries []model.PendingQueueEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	insertCols := make([]string, 0, len(keyCols)+4)
	for _, k := range keyCols {
		insertCols = append(insertCols, s.ident(k))
	}
	insertCols = append(insertCols, "column_name", "old_value", "new_value", "changed_by")

	values := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*(len(keyCols)+3))
	n := 1
	for _, entry := range entries {
		ph := make([]string, 0, len(keyCols)+4)
		for _, kv := range entry.Key {
			ph = append(ph, fmt.Sprintf("$%d", n))
			args = append(args, kv.Value.Render())
			n++
		}
		ph = append(ph,
			fmt.Sprintf("$%d", n),
			fmt.Sprintf("to_jsonb($%d::text)", n+1),
			fmt.Sprintf("to_jsonb($%d::text)", n+2),
			"current_user")
		args = append(args, entry.Column, payloadArg(entry.OldValue), payloadArg(entry.NewValue))
		n += 3
		values = append(values, "("+strings.Join(ph, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		s.qualified(ref),
		strings.Join(insertCols, ", "),
		strings.Join(values, ", "))

	if _, err := s.conn.ExecWithTimeout(ctx, query, s.queryTimeout, args...); err != nil {
		return fmt.Errorf("failed to insert pending changes into %s: %w", ref, err)
	}

	s.logger.Info("Logged pending changes",
		zap.String("table", ref.String()),
		zap.Int("entries", len(entries)))
	return nil
}
