// pkg/review/validate_test.go
package review

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

func changeRecord(column string, newVal model.Value) model.ChangeRecord {
	return model.ChangeRecord{
		Key:      model.KeyTuple{{Column: "id", Value: model.NumericFromInt(1)}},
		Column:   column,
		OldValue: model.String("old"),
		NewValue: newVal,
	}
}

func TestValidateVarcharLimit(t *testing.T) {
	validator := NewSchemaValidator(nil, zap.NewNop())
	limits := map[string]model.ColumnLimit{
		"name": {Kind: model.LimitCharacter, DataType: "VARCHAR", MaxLength: 40},
	}

	ok := validator.Validate([]model.ChangeRecord{
		changeRecord("name", model.String(strings.Repeat("x", 40))),
	}, limits)
	assert.Empty(t, ok)

	violations := validator.Validate([]model.ChangeRecord{
		changeRecord("name", model.String(strings.Repeat("x", 100))),
	}, limits)
	require.Len(t, violations, 1)
	assert.Equal(t, "name", violations[0].Column)
	assert.Contains(t, violations[0].Reason, "exceeds max length 40")
}

func TestValidateLengthCountsRunesNotBytes(t *testing.T) {
	validator := NewSchemaValidator(nil, zap.NewNop())
	limits := map[string]model.ColumnLimit{
		"name": {Kind: model.LimitCharacter, DataType: "VARCHAR", MaxLength: 4},
	}

	violations := validator.Validate([]model.ChangeRecord{
		changeRecord("name", model.String("æøåü")),
	}, limits)
	assert.Empty(t, violations)
}

func TestValidateNumericPrecisionAndScale(t *testing.T) {
	validator := NewSchemaValidator(nil, zap.NewNop())
	limits := map[string]model.ColumnLimit{
		"amount": {Kind: model.LimitNumeric, DataType: "NUMBER", Precision: 10, Scale: 2},
	}

	tests := []struct {
		name    string
		value   model.Value
		wantErr bool
	}{
		{"fits exactly", model.Numeric(decimal.RequireFromString("12345678.99")), false},
		{"sign excluded from count", model.Numeric(decimal.RequireFromString("-12345678.99")), false},
		{"leading zeros excluded", model.String("0000.50"), false},
		{"too many integer digits", model.Numeric(decimal.RequireFromString("123456789.00")), true},
		{"too many fraction digits", model.String("1.234"), true},
		{"unparseable numeric", model.String("twelve"), true},
		{"null passes", model.Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := validator.Validate([]model.ChangeRecord{
				changeRecord("amount", tt.value),
			}, limits)
			if tt.wantErr {
				require.Len(t, violations, 1)
			} else {
				assert.Empty(t, violations)
			}
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	validator := NewSchemaValidator(nil, zap.NewNop())
	limits := map[string]model.ColumnLimit{
		"name":   {Kind: model.LimitCharacter, DataType: "VARCHAR", MaxLength: 3},
		"amount": {Kind: model.LimitNumeric, DataType: "NUMBER", Precision: 4, Scale: 1},
	}

	violations := validator.Validate([]model.ChangeRecord{
		changeRecord("name", model.String("too long")),
		changeRecord("amount", model.String("123456.7")),
		changeRecord("unconstrained", model.String("anything goes")),
	}, limits)

	assert.Len(t, violations, 2)
}

func TestValidationErrorMessage(t *testing.T) {
	err := model.ValidationError{
		Key:    model.KeyTuple{{Column: "id", Value: model.NumericFromInt(1)}},
		Column: "name",
		Reason: "exceeds max length 40 (got 100 characters)",
	}
	assert.Equal(t, "name (id=1): exceeds max length 40 (got 100 characters)", err.Error())
}
