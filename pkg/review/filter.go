// pkg/review/filter.go
package review

import (
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// FilterEngine derives filtered views of a tagged dataset. It never mutates
// its input; every call returns a new dataset.
type FilterEngine struct {
	logger *zap.Logger
}

// NewFilterEngine creates a filter engine
func NewFilterEngine(logger *zap.Logger) *FilterEngine {
	return &FilterEngine{logger: logger.Named("filter")}
}

// Apply keeps only the rows matching every non-default selection. String and
// boolean selections match by exact equality; range selections compare at
// date granularity so a range expressed as dates still matches datetime
// values. Rows whose value is null or not a date are excluded from a
// non-default range filter rather than raising an error.
func (e *FilterEngine) Apply(ds *model.Dataset, tags map[string]model.ColumnTag, selections model.FilterSet) *model.Dataset {
	active := make(map[string]model.Selection)
	for col, sel := range selections {
		if !ds.HasColumn(col) {
			continue
		}
		if sel.IsDefault(tags[col]) {
			continue
		}
		active[col] = sel
	}

	out := model.NewDataset(ds.Columns)
	if len(active) == 0 {
		out.Rows = make([]model.Row, len(ds.Rows))
		for i, row := range ds.Rows {
			out.Rows[i] = row.Clone()
		}
		return out
	}

	for _, row := range ds.Rows {
		if rowMatches(row, active) {
			out.Append(row.Clone())
		}
	}

	e.logger.Debug("Applied filters",
		zap.Int("active", len(active)),
		zap.Int("in", ds.Len()),
		zap.Int("out", out.Len()))
	return out
}

func rowMatches(row model.Row, active map[string]model.Selection) bool {
	for col, sel := range active {
		v := row.Get(col)
		switch sel.Kind {
		case model.SelectEquals:
			if !v.Equal(sel.Value) {
				return false
			}
		case model.SelectRange:
			d, ok := v.AsDate()
			if !ok {
				return false
			}
			if d.Before(sel.Start) || d.After(sel.End) {
				return false
			}
		}
	}
	return true
}

// Reset produces the all-default selection set for a tagged dataset: "All"
// for string and boolean columns, the full observed bound range for temporal
// columns. Applying the result is always a no-op.
func (e *FilterEngine) Reset(ds *model.Dataset, tags map[string]model.ColumnTag) model.FilterSet {
	selections := make(model.FilterSet, len(ds.Columns))
	for _, col := range ds.Columns {
		tag := tags[col]
		if tag.IsTemporal() && tag.HasBounds {
			selections[col] = model.SelectionRange(tag.MinBound, tag.MaxBound)
		} else {
			selections[col] = model.SelectionAll()
		}
	}
	return selections
}
