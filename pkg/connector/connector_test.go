// pkg/connector/connector_test.go
package connector

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/config"
)

// stubDriver serves a fixed three-row result set through the database/sql
// machinery, so query helpers can be exercised without a live database
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return &stubConn{}, nil
}

type stubConn struct{}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{}, nil
}

func (c *stubConn) Close() error {
	return nil
}

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, driver.ErrSkip
}

type stubStmt struct{}

func (s *stubStmt) Close() error {
	return nil
}

func (s *stubStmt) NumInput() int {
	return 0
}

func (s *stubStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.ResultNoRows, nil
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	return &stubRows{values: []int64{1, 2, 3}}, nil
}

type stubRows struct {
	values []int64
	pos    int
}

func (r *stubRows) Columns() []string {
	return []string{"n"}
}

func (r *stubRows) Close() error {
	return nil
}

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.pos]
	r.pos++
	return nil
}

func init() {
	sql.Register("connectorstub", stubDriver{})
}

// collectInts drains the result set, pausing first so any premature context
// cancellation would close the rows before iteration starts
func collectInts(t *testing.T, rows *sql.Rows) []int64 {
	t.Helper()
	time.Sleep(50 * time.Millisecond)

	var got []int64
	for rows.Next() {
		var n int64
		require.NoError(t, rows.Scan(&n))
		got = append(got, n)
	}
	require.NoError(t, rows.Err())
	return got
}

func TestPostgresQueryWithTimeoutScansAllRows(t *testing.T) {
	db, err := sql.Open("connectorstub", "")
	require.NoError(t, err)
	defer db.Close()

	conn := &PostgresConnector{db: db, logger: zap.NewNop(), cfg: &config.PostgresConfig{}}

	var got []int64
	err = conn.QueryWithTimeout(context.Background(), "SELECT n", time.Minute, func(rows *sql.Rows) error {
		got = collectInts(t, rows)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestSnowflakeQueryWithTimeoutScansAllRows(t *testing.T) {
	db, err := sql.Open("connectorstub", "")
	require.NoError(t, err)
	defer db.Close()

	conn := &SnowflakeConnector{db: db, logger: zap.NewNop(), cfg: &config.SnowflakeConfig{}}

	var got []int64
	err = conn.QueryWithTimeout(context.Background(), "SELECT n", time.Minute, func(rows *sql.Rows) error {
		got = collectInts(t, rows)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestQueryWithTimeoutPropagatesScanError(t *testing.T) {
	db, err := sql.Open("connectorstub", "")
	require.NoError(t, err)
	defer db.Close()

	conn := &PostgresConnector{db: db, logger: zap.NewNop(), cfg: &config.PostgresConfig{}}

	wantErr := assert.AnError
	err = conn.QueryWithTimeout(context.Background(), "SELECT n", time.Minute, func(rows *sql.Rows) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
