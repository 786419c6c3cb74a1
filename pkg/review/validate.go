// pkg/review/validate.go
package review

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/store"
)

// SchemaValidator checks proposed changes against the destination table's
// declared column constraints before any write is attempted
type SchemaValidator struct {
	store  store.Datastore
	logger *zap.Logger
}

// NewSchemaValidator creates a validator backed by the given datastore
func NewSchemaValidator(st store.Datastore, logger *zap.Logger) *SchemaValidator {
	return &SchemaValidator{store: st, logger: logger.Named("validator")}
}

// DestinationLimits fetches the destination table's per-column constraints.
// Called once per write-back cycle; the result is reused for the whole batch.
func (v *SchemaValidator) DestinationLimits(ctx context.Context, ref store.TableRef) (map[string]model.ColumnLimit, error) {
	limits, err := v.store.ColumnLimits(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch column limits for %s: %w", ref, err)
	}
	v.logger.Debug("Fetched destination limits",
		zap.String("table", ref.String()),
		zap.Int("columns", len(limits)))
	return limits, nil
}

// Validate checks every change record against the limits and returns the
// complete list of violations. It never mutates data and never stops at the
// first failure, so the caller sees every offending field at once.
func (v *SchemaValidator) Validate(records []model.ChangeRecord, limits map[string]model.ColumnLimit) []model.ValidationError {
	errors := make([]model.ValidationError, 0)

	for _, rec := range records {
		limit, ok := limits[rec.Column]
		if !ok || rec.NewValue.IsNull() {
			continue
		}

		switch limit.Kind {
		case model.LimitCharacter:
			if reason, bad := checkLength(rec.NewValue, limit); bad {
				errors = append(errors, model.ValidationError{Key: rec.Key, Column: rec.Column, Reason: reason})
			}
		case model.LimitNumeric:
			if reason, bad := checkPrecision(rec.NewValue, limit); bad {
				errors = append(errors, model.ValidationError{Key: rec.Key, Column: rec.Column, Reason: reason})
			}
		}
	}

	if len(errors) > 0 {
		v.logger.Warn("Schema validation failed",
			zap.Int("records", len(records)),
			zap.Int("violations", len(errors)))
	}
	return errors
}

func checkLength(val model.Value, limit model.ColumnLimit) (string, bool) {
	n := utf8.RuneCountInString(val.Render())
	if n > limit.MaxLength {
		return fmt.Sprintf("exceeds max length %d (got %d characters)", limit.MaxLength, n), true
	}
	return "", false
}

func checkPrecision(val model.Value, limit model.ColumnLimit) (string, bool) {
	var dec decimal.Decimal
	switch val.Kind {
	case model.KindNumeric:
		dec = val.Num
	case model.KindString:
		parsed, err := decimal.NewFromString(strings.TrimSpace(val.Str))
		if err != nil {
			return fmt.Sprintf("not a valid number for %s column", limit.DataType), true
		}
		dec = parsed
	default:
		return fmt.Sprintf("not a valid number for %s column", limit.DataType), true
	}

	intDigits, fracDigits := countDigits(dec)
	if intDigits > limit.Precision-limit.Scale || fracDigits > limit.Scale {
		return fmt.Sprintf("exceeds precision %d, scale %d", limit.Precision, limit.Scale), true
	}
	return "", false
}

// countDigits returns the number of significant digits before and after the
// decimal point, with sign and leading zeros excluded
func countDigits(d decimal.Decimal) (intDigits, fracDigits int) {
	text := d.Abs().String()
	intPart := text
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		intPart = text[:dot]
		fracDigits = len(text) - dot - 1
	}
	intPart = strings.TrimLeft(intPart, "0")
	return len(intPart), fracDigits
}
