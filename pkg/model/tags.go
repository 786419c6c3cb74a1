// pkg/model/tags.go
package model

import "time"

// SemanticType is the inferred logical category of a column, distinct from
// its raw storage type
type SemanticType int

const (
	// TypeString is the fallback semantic type
	TypeString SemanticType = iota
	// TypeBoolean marks columns holding only true/false values
	TypeBoolean
	// TypeNumeric marks columns holding only numbers
	TypeNumeric
	// TypeDate marks timestamp columns whose values are all at midnight
	TypeDate
	// TypeDatetime marks timestamp columns with a time-of-day component
	TypeDatetime
)

// String returns a string representation of the semantic type
func (t SemanticType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeNumeric:
		return "numeric"
	case TypeDate:
		return "date"
	case TypeDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ColumnTag carries per-column semantic metadata produced by the tagger.
// For date and datetime columns MinBound/MaxBound hold the observed non-null
// extremes at date granularity; they seed the default all-inclusive filter
// range.
type ColumnTag struct {
	Type      SemanticType
	MinBound  time.Time
	MaxBound  time.Time
	HasBounds bool
}

// IsTemporal reports whether the tag marks a date or datetime column
func (t ColumnTag) IsTemporal() bool {
	return t.Type == TypeDate || t.Type == TypeDatetime
}
