// pkg/model/value_test.go
package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValueEqual(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"null equals null", Null(), Null(), true},
		{"null never equals non-null", Null(), String(""), false},
		{"non-null never equals null", NumericFromInt(0), Null(), false},
		{"equal strings", String("Alice"), String("Alice"), true},
		{"unequal strings", String("Alice"), String("Alicia"), false},
		{"equal booleans", Boolean(true), Boolean(true), true},
		{"unequal booleans", Boolean(true), Boolean(false), false},
		{"numerics compare by value not scale", Numeric(decimal.RequireFromString("1.50")), Numeric(decimal.RequireFromString("1.5")), true},
		{"unequal numerics", NumericFromInt(1), NumericFromInt(2), false},
		{"equal dates", Date(jan1), Date(jan1), true},
		{"date not equal to datetime", Date(jan1), Datetime(jan1), false},
		{"string not equal to numeric", String("1"), NumericFromInt(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestValueRender(t *testing.T) {
	assert.Equal(t, "", Null().Render())
	assert.Equal(t, "Alice", String("Alice").Render())
	assert.Equal(t, "true", Boolean(true).Render())
	assert.Equal(t, "12.50", Numeric(decimal.RequireFromString("12.50")).Render())
	assert.Equal(t, "2024-01-01", Date(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)).Render())
	assert.Equal(t, "2024-01-02 03:00:00", Datetime(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)).Render())
}

func TestDriverValueNullIsNil(t *testing.T) {
	assert.Nil(t, Null().DriverValue())
	assert.Equal(t, "", String("").DriverValue())
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 15, 17, 45, 12, 999, time.UTC)
	out := DateOnly(in)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), out)
	assert.Equal(t, out, DateOnly(out))
}

func TestFromDriver(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Null(), FromDriver(nil))
	assert.Equal(t, String("x"), FromDriver("x"))
	assert.Equal(t, String("bytes"), FromDriver([]byte("bytes")))
	assert.Equal(t, Boolean(true), FromDriver(true))
	assert.True(t, FromDriver(int64(42)).Equal(NumericFromInt(42)))
	assert.True(t, FromDriver(42).Equal(NumericFromInt(42)))
	assert.True(t, FromDriver(1.5).Equal(Numeric(decimal.RequireFromString("1.5"))))
	assert.Equal(t, Datetime(ts), FromDriver(ts))
}

func TestKeyTupleHashAndString(t *testing.T) {
	key := KeyTuple{
		{Column: "order_id", Value: NumericFromInt(1)},
		{Column: "region", Value: String("west")},
	}
	assert.Equal(t, "order_id=1, region=west", key.String())

	other := KeyTuple{
		{Column: "order_id", Value: NumericFromInt(1)},
		{Column: "region", Value: String("east")},
	}
	assert.NotEqual(t, key.Hash(), other.Hash())
	assert.Equal(t, key.Hash(), key.Hash())
}
