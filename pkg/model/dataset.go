// pkg/model/dataset.go
package model

// Row maps display column names to typed cell values
type Row map[string]Value

// Clone returns a deep copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for col, val := range r {
		out[col] = val
	}
	return out
}

// Get returns the value for a column, treating a missing column as null
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null()
}

// Dataset is an ordered set of rows sharing one column layout. Column names
// are display names. The column set and per-column types are fixed for the
// lifetime of one load cycle; transformations return new datasets and leave
// their inputs untouched.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset creates an empty dataset with the given column layout
func NewDataset(columns []string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols, Rows: make([]Row, 0)}
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	out := NewDataset(d.Columns)
	out.Rows = make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// HasColumn reports whether the dataset declares the given display column
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// HasColumns reports whether the dataset declares every given display column
func (d *Dataset) HasColumns(cols []string) bool {
	for _, c := range cols {
		if !d.HasColumn(c) {
			return false
		}
	}
	return true
}

// Append adds a row to the dataset
func (d *Dataset) Append(row Row) {
	d.Rows = append(d.Rows, row)
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Head returns a new dataset containing at most n rows. Rows are shared
// copies, so editing the head never touches the source.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 || n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := NewDataset(d.Columns)
	out.Rows = make([]Row, n)
	for i := 0; i < n; i++ {
		out.Rows[i] = d.Rows[i].Clone()
	}
	return out
}
