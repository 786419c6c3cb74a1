// pkg/model/changes.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// KeyValue is one component of a row's primary-key tuple. Column is the
// storage name; declared key order is preserved wherever tuples appear.
type KeyValue struct {
	Column string
	Value  Value
}

// KeyTuple is an ordered primary-key tuple identifying one row
type KeyTuple []KeyValue

// String renders the key tuple for logs and error messages
func (k KeyTuple) String() string {
	parts := make([]string, len(k))
	for i, kv := range k {
		parts[i] = fmt.Sprintf("%s=%s", kv.Column, kv.Value.Render())
	}
	return strings.Join(parts, ", ")
}

// Hash returns a stable map key for the tuple. The unit separator keeps
// composite keys unambiguous even when values contain delimiters.
func (k KeyTuple) Hash() string {
	parts := make([]string, len(k))
	for i, kv := range k {
		parts[i] = kv.Value.Render()
	}
	return strings.Join(parts, "\x1f")
}

// ChangeRecord describes a single edited cell: the row's full primary-key
// tuple, the destination (storage) column name, and the old and new values.
// One record is emitted per changed cell, never per changed row.
type ChangeRecord struct {
	Key      KeyTuple
	Column   string
	OldValue Value
	NewValue Value
}

// ValidationError describes one field that failed destination-limit checks
type ValidationError struct {
	Key    KeyTuple
	Column string
	Reason string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Column, e.Key, e.Reason)
}

// ApprovalPending is the initial approval status of every queue entry.
// Approval transitions are owned by the review workflow, not this pipeline.
const ApprovalPending = "PENDING"

// PendingQueueEntry is the persisted form of a ChangeRecord awaiting
// approval. ChangedBy and ChangedAt are filled server-side at insert time;
// they are carried here only for rows read back out of the queue.
type PendingQueueEntry struct {
	Key            KeyTuple
	Column         string
	OldValue       Value
	NewValue       Value
	ChangedBy      string
	ChangedAt      time.Time
	ApprovalStatus string
}

// PendingEntryFromRecord wraps a change record into its queue form
func PendingEntryFromRecord(rec ChangeRecord) PendingQueueEntry {
	return PendingQueueEntry{
		Key:            rec.Key,
		Column:         rec.Column,
		OldValue:       rec.OldValue,
		NewValue:       rec.NewValue,
		ApprovalStatus: ApprovalPending,
	}
}

// LimitKind categorizes a destination column's declared type for validation
type LimitKind int

const (
	// LimitNone means the column carries no checkable constraint
	LimitNone LimitKind = iota
	// LimitCharacter means the column enforces a maximum character length
	LimitCharacter
	// LimitNumeric means the column enforces decimal precision and scale
	LimitNumeric
)

// ColumnLimit holds one destination column's declared constraints, keyed by
// storage column name in the limits mapping.
type ColumnLimit struct {
	Kind      LimitKind
	DataType  string
	MaxLength int
	Precision int
	Scale     int
}
