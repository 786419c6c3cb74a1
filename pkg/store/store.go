// pkg/store/store.go
package store

import (
	"context"
	"strings"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// TableRef addresses one table. Database may be empty for stores that scope
// connections to a single database.
type TableRef struct {
	Database string
	Schema   string
	Table    string
}

// String returns the dotted form for logs
func (r TableRef) String() string {
	parts := make([]string, 0, 3)
	if r.Database != "" {
		parts = append(parts, r.Database)
	}
	if r.Schema != "" {
		parts = append(parts, r.Schema)
	}
	parts = append(parts, r.Table)
	return strings.Join(parts, ".")
}

// WithTable returns a copy of the ref pointing at a sibling table
func (r TableRef) WithTable(table string) TableRef {
	r.Table = table
	return r
}

// ColumnType is a dialect-neutral column type for created tables
type ColumnType int

const (
	// ColumnText holds character data
	ColumnText ColumnType = iota
	// ColumnPayload holds an opaque variant value so heterogeneous column
	// types can share one log schema
	ColumnPayload
	// ColumnTimestamp holds a timestamp
	ColumnTimestamp
)

// DefaultRule selects a server-side default for a created column
type DefaultRule int

const (
	// DefaultNone means no default
	DefaultNone DefaultRule = iota
	// DefaultWriteTime defaults the column to the server's insert timestamp
	DefaultWriteTime
	// DefaultPendingStatus defaults the column to the pending approval marker
	DefaultPendingStatus
)

// ColumnSpec describes one column of a table to create
type ColumnSpec struct {
	Name    string
	Type    ColumnType
	Default DefaultRule
}

// TableSpec describes a table to create. Each store maps the neutral types
// onto its own DDL dialect.
type TableSpec struct {
	Columns []ColumnSpec
}

// PendingTableSpec builds the approval-queue table layout: one column per
// primary-key field, then the change payload and audit columns. One queue
// row corresponds to one changed field, not one changed row.
func PendingTableSpec(keyCols []string) TableSpec {
	cols := make([]ColumnSpec, 0, len(keyCols)+6)
	for _, k := range keyCols {
		cols = append(cols, ColumnSpec{Name: k, Type: ColumnText})
	}
	cols = append(cols,
		ColumnSpec{Name: "column_name", Type: ColumnText},
		ColumnSpec{Name: "old_value", Type: ColumnPayload},
		ColumnSpec{Name: "new_value", Type: ColumnPayload},
		ColumnSpec{Name: "changed_by", Type: ColumnText},
		ColumnSpec{Name: "changed_at", Type: ColumnTimestamp, Default: DefaultWriteTime},
		ColumnSpec{Name: "approval_status", Type: ColumnText, Default: DefaultPendingStatus},
	)
	return TableSpec{Columns: cols}
}

// Datastore is the narrow interface the review pipeline consumes. All
// column parameters are storage names; datasets use display names.
type Datastore interface {
	// LoadTable reads a full table, optionally ordered by one column
	LoadTable(ctx context.Context, ref TableRef, orderBy string) (*model.Dataset, error)

	// ColumnLimits fetches the destination table's declared per-column
	// constraints, keyed by storage column name
	ColumnLimits(ctx context.Context, ref TableRef) (map[string]model.ColumnLimit, error)

	// MergeRows updates only updateCols on the rows matched by the full
	// primary-key tuple, stamping lockCol with the write time when set.
	// The merge is atomic as a set: all targeted rows or none.
	MergeRows(ctx context.Context, ref TableRef, keyCols, updateCols []string, lockCol string, rows *model.Dataset) error

	// TableExists reports whether the table exists
	TableExists(ctx context.Context, ref TableRef) (bool, error)

	// CreateTable creates a table from a dialect-neutral spec
	CreateTable(ctx context.Context, ref TableRef, spec TableSpec) error

	// InsertPending appends queue entries, letting the server supply the
	// acting user and insert timestamp for the audit fields
	InsertPending(ctx context.Context, ref TableRef, keyCols []string, entries []model.PendingQueueEntry) error
}
