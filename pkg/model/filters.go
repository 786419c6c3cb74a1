// pkg/model/filters.go
package model

import "time"

// SelectionKind identifies the shape of a per-column filter selection
type SelectionKind int

const (
	// SelectAll means no filtering on the column
	SelectAll SelectionKind = iota
	// SelectEquals keeps rows whose value equals the chosen value
	SelectEquals
	// SelectRange keeps rows whose date falls inside a closed range
	SelectRange
)

// Selection is one column's filter choice: "All", a concrete string/boolean
// value, or a closed date range. The zero Selection is "All".
type Selection struct {
	Kind  SelectionKind
	Value Value
	Start time.Time
	End   time.Time
}

// SelectionAll returns the no-filtering selection
func SelectionAll() Selection {
	return Selection{Kind: SelectAll}
}

// SelectionEquals returns an exact-match selection
func SelectionEquals(v Value) Selection {
	return Selection{Kind: SelectEquals, Value: v}
}

// SelectionRange returns a closed date-range selection. Bounds are
// normalized to date granularity.
func SelectionRange(start, end time.Time) Selection {
	return Selection{Kind: SelectRange, Start: DateOnly(start), End: DateOnly(end)}
}

// IsDefault reports whether the selection is a no-op for a column with the
// given tag: "All" always is, and a range exactly equal to the column's full
// observed bounds is treated as no filtering so default ranges never drop
// rows at the edges.
func (s Selection) IsDefault(tag ColumnTag) bool {
	switch s.Kind {
	case SelectAll:
		return true
	case SelectRange:
		return tag.HasBounds && s.Start.Equal(tag.MinBound) && s.End.Equal(tag.MaxBound)
	default:
		return false
	}
}

// FilterSet maps display column names to filter selections
type FilterSet map[string]Selection

// Clone returns a copy of the filter set
func (f FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(f))
	for col, sel := range f {
		out[col] = sel
	}
	return out
}
