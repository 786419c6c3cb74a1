// pkg/model/value.go
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind identifies which arm of the Value sum type is populated
type ValueKind int

const (
	// KindNull represents a missing value
	KindNull ValueKind = iota
	// KindString represents free-form text
	KindString
	// KindBoolean represents a true/false value
	KindBoolean
	// KindNumeric represents an arbitrary-precision decimal
	KindNumeric
	// KindDate represents a calendar date (midnight UTC internally)
	KindDate
	// KindDatetime represents a timestamp with a time-of-day component
	KindDatetime
)

// String returns a string representation of the value kind
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindDatetime:
		return "datetime"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Value is a typed cell value. Exactly one arm is meaningful, selected by
// Kind; the zero Value is null. Comparisons and validation pattern-match on
// Kind instead of relying on driver-level coercion.
type Value struct {
	Kind ValueKind
	Str  string
	Bool bool
	Num  decimal.Decimal
	Time time.Time
}

// Null returns the null value
func Null() Value {
	return Value{Kind: KindNull}
}

// String returns a string value
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Boolean returns a boolean value
func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// Numeric returns a numeric value
func Numeric(d decimal.Decimal) Value {
	return Value{Kind: KindNumeric, Num: d}
}

// NumericFromInt returns a numeric value from an integer
func NumericFromInt(n int64) Value {
	return Numeric(decimal.NewFromInt(n))
}

// Date returns a date value, truncated to midnight UTC
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Time: DateOnly(t)}
}

// Datetime returns a datetime value
func Datetime(t time.Time) Value {
	return Value{Kind: KindDatetime, Time: t}
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Equal compares two values with null-aware semantics: null equals null,
// null never equals a non-null, and non-nulls compare by kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind == KindNull || other.Kind == KindNull {
		return v.Kind == other.Kind
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindBoolean:
		return v.Bool == other.Bool
	case KindNumeric:
		return v.Num.Equal(other.Num)
	case KindDate, KindDatetime:
		return v.Time.Equal(other.Time)
	default:
		return false
	}
}

// Render returns the canonical string form of the value, used for key
// tuples and for the pending-queue payload. Null renders as the empty string.
func (v Value) Render() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindString:
		return v.Str
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumeric:
		return v.Num.String()
	case KindDate:
		return v.Time.Format("2006-01-02")
	case KindDatetime:
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// DriverValue returns the value in a form suitable for database/sql binding.
// Null becomes nil so the driver writes SQL NULL.
func (v Value) DriverValue() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindString:
		return v.Str
	case KindBoolean:
		return v.Bool
	case KindNumeric:
		return v.Num.String()
	case KindDate, KindDatetime:
		return v.Time
	default:
		return nil
	}
}

// AsDate returns the value at date granularity and whether the value carries
// a date at all. Dates and datetimes qualify; everything else does not.
func (v Value) AsDate() (time.Time, bool) {
	switch v.Kind {
	case KindDate, KindDatetime:
		return DateOnly(v.Time), true
	default:
		return time.Time{}, false
	}
}

// DateOnly truncates a timestamp to midnight UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FromDriver converts a raw database/sql scan result into a typed Value.
// Integers and floats become numerics, byte slices become strings, and
// timestamps become datetimes; the tagger refines kinds afterwards.
func FromDriver(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(v)
	case []byte:
		return String(string(v))
	case bool:
		return Boolean(v)
	case int64:
		return NumericFromInt(v)
	case int:
		return NumericFromInt(int64(v))
	case float64:
		return Numeric(decimal.NewFromFloat(v))
	case time.Time:
		return Datetime(v)
	default:
		return String(fmt.Sprintf("%v", v))
	}
}
