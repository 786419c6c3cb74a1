// pkg/review/diff.go
package review

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// ChangeDetector compares an edited dataset against an original snapshot,
// keyed by the primary-key tuple. Key and lock columns are configured by
// storage name; datasets carry display names.
type ChangeDetector struct {
	keyCols []string
	lockCol string
	logger  *zap.Logger
}

// NewChangeDetector creates a detector for the given primary-key columns and
// optional lock column, both in storage naming
func NewChangeDetector(keyCols []string, lockCol string, logger *zap.Logger) *ChangeDetector {
	return &ChangeDetector{
		keyCols: keyCols,
		lockCol: lockCol,
		logger:  logger.Named("diff"),
	}
}

// keyDisplay returns the key columns translated to display naming
func (d *ChangeDetector) keyDisplay() []string {
	return model.DisplayNames(d.keyCols)
}

// checkStructure verifies both datasets declare every key column
func (d *ChangeDetector) checkStructure(edited, original *model.Dataset) error {
	for _, col := range d.keyDisplay() {
		if !edited.HasColumn(col) {
			return &StructuralError{Reason: fmt.Sprintf("key column %q missing from edited data", col)}
		}
		if !original.HasColumn(col) {
			return &StructuralError{Reason: fmt.Sprintf("key column %q missing from original data", col)}
		}
	}
	return nil
}

// keyTuple extracts a row's ordered primary-key tuple in storage naming
func (d *ChangeDetector) keyTuple(row model.Row) model.KeyTuple {
	display := d.keyDisplay()
	tuple := make(model.KeyTuple, len(d.keyCols))
	for i, storage := range d.keyCols {
		tuple[i] = model.KeyValue{Column: storage, Value: row.Get(display[i])}
	}
	return tuple
}

// comparedColumns returns the display columns compared for changes, which is
// every column except keys and the lock column
func (d *ChangeDetector) comparedColumns(ds *model.Dataset) []string {
	skip := make(map[string]bool, len(d.keyCols)+1)
	for _, col := range d.keyDisplay() {
		skip[col] = true
	}
	if d.lockCol != "" {
		skip[model.DisplayName(d.lockCol)] = true
	}
	cols := make([]string, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		if !skip[col] {
			cols = append(cols, col)
		}
	}
	return cols
}

// index maps key hashes to rows
func (d *ChangeDetector) index(ds *model.Dataset) map[string]model.Row {
	idx := make(map[string]model.Row, ds.Len())
	for _, row := range ds.Rows {
		idx[d.keyTuple(row).Hash()] = row
	}
	return idx
}

// ChangedRows returns the subset of edited rows that differ from their
// original counterpart in any compared column, under null-aware equality.
// An edited row whose key does not exist in the original aborts with a
// structural error, since its identity cannot be trusted.
func (d *ChangeDetector) ChangedRows(edited, original *model.Dataset) (*model.Dataset, error) {
	if err := d.checkStructure(edited, original); err != nil {
		return nil, err
	}

	origIdx := d.index(original)
	compared := d.comparedColumns(edited)

	out := model.NewDataset(edited.Columns)
	for _, row := range edited.Rows {
		key := d.keyTuple(row)
		origRow, ok := origIdx[key.Hash()]
		if !ok {
			return nil, &StructuralError{
				Reason: fmt.Sprintf("edited row (%s) has no matching original", key),
			}
		}
		for _, col := range compared {
			if !row.Get(col).Equal(origRow.Get(col)) {
				out.Append(row.Clone())
				break
			}
		}
	}

	d.logger.Debug("Detected changed rows",
		zap.Int("edited", edited.Len()),
		zap.Int("changed", out.Len()))
	return out, nil
}

// BuildChangeLog emits one ChangeRecord per changed cell, carrying the full
// primary-key tuple and storage column names. Unchanged cells produce no
// record.
func (d *ChangeDetector) BuildChangeLog(edited, original *model.Dataset) ([]model.ChangeRecord, error) {
	if err := d.checkStructure(edited, original); err != nil {
		return nil, err
	}

	origIdx := d.index(original)
	compared := d.comparedColumns(edited)

	records := make([]model.ChangeRecord, 0)
	for _, row := range edited.Rows {
		key := d.keyTuple(row)
		origRow, ok := origIdx[key.Hash()]
		if !ok {
			return nil, &StructuralError{
				Reason: fmt.Sprintf("edited row (%s) has no matching original", key),
			}
		}
		for _, col := range compared {
			oldVal := origRow.Get(col)
			newVal := row.Get(col)
			if !newVal.Equal(oldVal) {
				records = append(records, model.ChangeRecord{
					Key:      key,
					Column:   model.StorageName(col),
					OldValue: oldVal,
					NewValue: newVal,
				})
			}
		}
	}

	d.logger.Debug("Built change log", zap.Int("records", len(records)))
	return records, nil
}
