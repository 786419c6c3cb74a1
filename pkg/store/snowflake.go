// pkg/store/snowflake.go
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

// SnowflakeStore implements Datastore against Snowflake. Identifiers are
// upper-cased on the way in, since Snowflake folds unquoted identifiers to
// upper case, and translated back to display names on the way out.
type SnowflakeStore struct {
	conn         connector.DatabaseConnector
	db           *sqlx.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewSnowflakeStore creates a Snowflake-backed datastore
func NewSnowflakeStore(conn connector.DatabaseConnector, queryTimeout time.Duration, logger *zap.Logger) *SnowflakeStore {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Minute
	}
	return &SnowflakeStore{
		conn:         conn,
		db:           sqlx.NewDb(conn.DB(), conn.Driver()),
		logger:       logger.Named("snowflake-store"),
		queryTimeout: queryTimeout,
	}
}

func (s *SnowflakeStore) ident(storage string) string {
	return strings.ToUpper(storage)
}

func (s *SnowflakeStore) qualified(ref TableRef) string {
	parts := make([]string, 0, 3)
	if ref.Database != "" {
		parts = append(parts, s.ident(ref.Database))
	}
	if ref.Schema != "" {
		parts = append(parts, s.ident(ref.Schema))
	}
	parts = append(parts, s.ident(ref.Table))
	return strings.Join(parts, ".")
}

func (s *SnowflakeStore) infoSchema(ref TableRef, view string) string {
	if ref.Database != "" {
		return fmt.Sprintf("%s.information_schema.%s", s.ident(ref.Database), view)
	}
	return "information_schema." + view
}

// LoadTable reads the full table, schema-agnostically, via MapScan
func (s *SnowflakeStore) LoadTable(ctx context.Context, ref TableRef, orderBy string) (*model.Dataset, error) {
	query := "SELECT * FROM " + s.qualified(ref)
	if orderBy != "" {
		query += " ORDER BY " + s.ident(orderBy)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	s.logger.Debug("Loading table", zap.String("table", ref.String()))
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
func (s *SnowflakeStore) ColumnLimits(ctx context.Context, ref TableRef) (map[string]model.ColumnLimit, error) {
	query := fmt.Sprintf(`
		SELECT column_name, data_type, character_maximum_length, numeric_precision, numeric_scale
		FROM %s
		WHERE table_schema = ? AND table_name = ?`,
		s.infoSchema(ref, "columns"))

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

// MergeRows updates the changed columns of the matched rows in a single
// MERGE statement, so the batch commits or fails as one unit
func (s *SnowflakeStore) MergeRows(
	ctx context.Context,
	ref TableRef,
	keyCols, updateCols []string,
	lockCol string,
	rows *model.Dataset,
) error {
	if rows.Len() == 0 {
		return nil
	}

	srcCols := append(append([]string{}, keyCols...), updateCols...)

	selects := make([]string, 0, rows.Len())
	args := make([]interface{}, 0, rows.Len()*len(srcCols))
	for i, row := range rows.Rows {
		ph := make([]string, len(srcCols))
		for j, c := range srcCols {
			if i == 0 {
				ph[j] = "? AS " + s.ident(c)
			} else {
				ph[j] = "?"
			}
			args = append(args, row.Get(model.DisplayName(c)).DriverValue())
		}
		selects = append(selects, "SELECT "+strings.Join(ph, ", "))
	}

	on := make([]string, len(keyCols))
	for i, k := range keyCols {
		on[i] = fmt.Sprintf("prd.%s = src.%s", s.ident(k), s.ident(k))
	}

	set := make([]string, 0, len(updateCols)+1)
	for _, c := range updateCols {
		set = append(set, fmt.Sprintf("prd.%s = src.%s", s.ident(c), s.ident(c)))
	}
	if lockCol != "" {
		set = append(set, fmt.Sprintf("prd.%s = CURRENT_TIMESTAMP()", s.ident(lockCol)))
	}

	query := fmt.Sprintf(
		"MERGE INTO %s prd USING (%s) src ON %s WHEN MATCHED THEN UPDATE SET %s",
		s.qualified(ref),
		strings.Join(selects, " UNION ALL "),
		strings.Join(on, " AND "),
		strings.Join(set, ", "),
	)

	s.logger.Debug("Merging rows",
		zap.String("table", ref.String()),
		zap.Int("rows", rows.Len()),
		zap.Strings("columns", updateCols))

	if _, err := s.conn.ExecWithTimeout(ctx, query, s.queryTimeout, args...); err != nil {
		return fmt.Errorf("merge into %s failed: %w", ref, err)
	}
	return nil
}

// TableExists reports whether the table exists
func (s *SnowflakeStore) TableExists(ctx context.Context, ref TableRef) (bool, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE table_schema = ? AND table_name = ?",
		s.infoSchema(ref, "tables"))

	var count int
	err := s.conn.QueryWithTimeout(ctx, query, s.queryTimeout, func(rows *sql.Rows) error {
		if rows.Next() {
			if err := rows.Scan(&count); err != nil {
				return fmt.Errorf("failed to scan table count: %w", err)
			}
		}
		return nil
	}, s.ident(ref.Schema), s.ident(ref.Table))
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", ref, err)
	}
	return count > 0, nil
}

// CreateTable creates a table from a dialect-neutral spec
func (s *SnowflakeStore) CreateTable(ctx context.Context, ref TableRef, spec TableSpec) error {
	defs := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		def := s.ident(col.Name) + " " + s.columnType(col.Type)
		switch col.Default {
		case DefaultWriteTime:
			def += " DEFAULT CURRENT_TIMESTAMP()"
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

func (s *SnowflakeStore) columnType(t ColumnType) string {
	switch t {
	case ColumnPayload:
		return "VARIANT"
	case ColumnTimestamp:
		return "TIMESTAMP_NTZ"
	default:
		return "STRING"
	}
}

// InsertPending appends queue entries. Snowflake fills changed_by via
// CURRENT_USER() and changed_at/approval_status via the table defaults.
func (s *SnowflakeStore) InsertPending(
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
	insertCols = append(insertCols, "COLUMN_NAME", "OLD_VALUE", "NEW_VALUE", "CHANGED_BY")

	selects := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*(len(keyCols)+3))
	for _, entry := range entries {
		ph := make([]string, 0, len(keyCols)+4)
		for _, kv := range entry.Key {
			ph = append(ph, "?")
			args = append(args, kv.Value.Render())
		}
		ph = append(ph, "?", "TO_VARIANT(?)", "TO_VARIANT(?)", "CURRENT_USER()")
		args = append(args, entry.Column, payloadArg(entry.OldValue), payloadArg(entry.NewValue))
		selects = append(selects, "SELECT "+strings.Join(ph, ", "))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) %s",
		s.qualified(ref),
		strings.Join(insertCols, ", "),
		strings.Join(selects, " UNION ALL "))

	if _, err := s.conn.ExecWithTimeout(ctx, query, s.queryTimeout, args...); err != nil {
		return fmt.Errorf("failed to insert pending changes into %s: %w", ref, err)
	}

	s.logger.Info("Logged pending changes",
		zap.String("table", ref.String()),
		zap.Int("entries", len(entries)))
	return nil
}

// payloadArg renders a value for the variant payload columns, keeping NULL
// distinguishable from the empty string
func payloadArg(v model.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	return v.Render()
}

// loadDataset runs a query and converts the result set into a Dataset with
// display column names. Shared by both store implementations.
func loadDataset(ctx context.Context, db *sqlx.DB, query string) (*model.Dataset, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	display := model.DisplayNames(cols)

	ds := model.NewDataset(display)
	for rows.Next() {
		raw := make(map[string]interface{}, len(cols))
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(model.Row, len(cols))
		for i, c := range cols {
			row[display[i]] = model.FromDriver(raw[c])
		}
		ds.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ds, nil
}

// scanColumnLimits converts an information-schema result into the limits
// mapping keyed by storage column name
func scanColumnLimits(rows *sql.Rows) (map[string]model.ColumnLimit, error) {
	limits := make(map[string]model.ColumnLimit)

	for rows.Next() {
		var (
			colName   string
			dataType  string
			maxLength sql.NullInt64
			precision sql.NullInt64
			scale     sql.NullInt64
		)
		if err := rows.Scan(&colName, &dataType, &maxLength, &precision, &scale); err != nil {
			return nil, fmt.Errorf("failed to scan column limit: %w", err)
		}

		limit := model.ColumnLimit{Kind: model.LimitNone, DataType: dataType}
		upper := strings.ToUpper(dataType)

		switch {
		case strings.Contains(upper, "CHAR"),
			strings.Contains(upper, "TEXT"),
			strings.Contains(upper, "STRING"):
			if maxLength.Valid {
				limit.Kind = model.LimitCharacter
				limit.MaxLength = int(maxLength.Int64)
			}
		case upper == "NUMBER", upper == "DECIMAL", upper == "NUMERIC", upper == "FIXED":
			if precision.Valid {
				limit.Kind = model.LimitNumeric
				limit.Precision = int(precision.Int64)
				if scale.Valid {
					limit.Scale = int(scale.Int64)
				}
			}
		}

		limits[strings.ToLower(colName)] = limit
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column limits: %w", err)
	}

	return limits, nil
}
