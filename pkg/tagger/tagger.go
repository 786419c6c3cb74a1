// pkg/tagger/tagger.go
package tagger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// TypeTagger infers per-column semantic types for a loaded dataset and, for
// date-like columns, the observed bounds used as default filter ranges. It
// is a pure function of the dataset: no side effects beyond the returned
// tagged copy and tag mapping.
type TypeTagger struct {
	logger *zap.Logger
	config TaggerConfig
}

// TaggerConfig provides configuration options for type tagging
type TaggerConfig struct {
	// Candidate timestamp layouts, tried in order. A column is promoted only
	// when a single layout parses every non-null value.
	TimestampLayouts []string
}

// DefaultConfig returns the default configuration
func DefaultConfig() TaggerConfig {
	return TaggerConfig{
		TimestampLayouts: []string{
			"2006-01-02 15:04:05-07:00",
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02 15:04:05",
			"2006-01-02",
		},
	}
}

// NewTypeTagger creates a new TypeTagger with default configuration
func NewTypeTagger(logger *zap.Logger) *TypeTagger {
	return NewTypeTaggerWithConfig(logger, DefaultConfig())
}

// NewTypeTaggerWithConfig creates a TypeTagger with custom configuration
func NewTypeTaggerWithConfig(logger *zap.Logger, config TaggerConfig) *TypeTagger {
	return &TypeTagger{
		logger: logger,
		config: config,
	}
}

// Tag returns a tagged copy of the dataset plus the column tag mapping.
// Promotions are whole-column and null-tolerant: a promotion applies only
// when every non-null value qualifies, otherwise the column is left at its
// pre-tagging type. Ambiguity is never an error.
func (t *TypeTagger) Tag(ds *model.Dataset) (*model.Dataset, map[string]model.ColumnTag) {
	tagged := ds.Clone()
	tags := make(map[string]model.ColumnTag, len(ds.Columns))

	for _, col := range ds.Columns {
		values := make([]model.Value, len(tagged.Rows))
		for i, row := range tagged.Rows {
			values[i] = row.Get(col)
		}

		promoted, tag := t.tagColumn(col, values)
		tags[col] = tag

		if promoted != nil {
			for i, row := range tagged.Rows {
				row[col] = promoted[i]
			}
		}
	}

	return tagged, tags
}

// tagColumn inspects one column's values and returns the promoted values
// (nil when the column is unchanged) and its tag.
func (t *TypeTagger) tagColumn(col string, values []model.Value) ([]model.Value, model.ColumnTag) {
	kind, uniform := uniformKind(values)
	if !uniform {
		// Mixed driver kinds: no safe promotion exists
		t.logger.Debug("Skipping type inference for mixed-kind column",
			zap.String("column", col))
		return nil, model.ColumnTag{Type: model.TypeString}
	}

	switch kind {
	case model.KindNumeric:
		return nil, model.ColumnTag{Type: model.TypeNumeric}
	case model.KindBoolean:
		return nil, model.ColumnTag{Type: model.TypeBoolean}
	case model.KindDate, model.KindDatetime:
		return t.tagTemporal(values)
	case model.KindNull:
		// Entirely null column: nothing to infer
		return nil, model.ColumnTag{Type: model.TypeString}
	}

	// String column: attempt promotions, strongest first
	if promoted, ok := promoteBoolean(values); ok {
		t.logger.Debug("Promoted column to boolean", zap.String("column", col))
		return promoted, model.ColumnTag{Type: model.TypeBoolean}
	}
	if promoted, ok := promoteNumeric(values); ok {
		t.logger.Debug("Promoted column to numeric", zap.String("column", col))
		return promoted, model.ColumnTag{Type: model.TypeNumeric}
	}
	if promoted, ok := t.promoteTimestamp(values); ok {
		t.logger.Debug("Promoted column to timestamp", zap.String("column", col))
		return t.tagTemporal(promoted)
	}

	return nil, model.ColumnTag{Type: model.TypeString}
}

// tagTemporal applies the midnight-downgrade rule and computes the observed
// date bounds for a fully timestamp-typed column.
func (t *TypeTagger) tagTemporal(values []model.Value) ([]model.Value, model.ColumnTag) {
	var minBound, maxBound time.Time
	hasBounds := false
	allMidnight := true

	for _, v := range values {
		if v.IsNull() {
			continue
		}

		day, _ := v.AsDate()
		if !hasBounds {
			minBound, maxBound = day, day
			hasBounds = true
		} else {
			if day.Before(minBound) {
				minBound = day
			}
			if day.After(maxBound) {
				maxBound = day
			}
		}

		if !v.Time.Equal(day) {
			allMidnight = false
		}
	}

	tag := model.ColumnTag{
		Type:      model.TypeDatetime,
		MinBound:  minBound,
		MaxBound:  maxBound,
		HasBounds: hasBounds,
	}

	// A timestamp column whose every non-null value sits exactly at midnight
	// carries no time-of-day information and is downgraded to a date column.
	if allMidnight {
		tag.Type = model.TypeDate
		promoted := make([]model.Value, len(values))
		for i, v := range values {
			if v.IsNull() {
				promoted[i] = model.Null()
				continue
			}
			promoted[i] = model.Date(v.Time)
		}
		return promoted, tag
	}

	promoted := make([]model.Value, len(values))
	for i, v := range values {
		if v.IsNull() {
			promoted[i] = model.Null()
			continue
		}
		promoted[i] = model.Datetime(v.Time)
	}
	return promoted, tag
}

// promoteTimestamp parses every non-null string with one candidate layout.
// The first layout that accepts the whole column wins; partial success
// leaves the column unchanged.
func (t *TypeTagger) promoteTimestamp(values []model.Value) ([]model.Value, bool) {
	for _, layout := range t.config.TimestampLayouts {
		promoted := make([]model.Value, len(values))
		ok := true
		for i, v := range values {
			if v.IsNull() {
				promoted[i] = model.Null()
				continue
			}
			parsed, err := time.Parse(layout, v.Str)
			if err != nil {
				ok = false
				break
			}
			promoted[i] = model.Datetime(parsed)
		}
		if ok {
			return promoted, true
		}
	}
	return nil, false
}

// promoteBoolean promotes a string column whose every non-null value is a
// true/false token
func promoteBoolean(values []model.Value) ([]model.Value, bool) {
	promoted := make([]model.Value, len(values))
	sawValue := false
	for i, v := range values {
		if v.IsNull() {
			promoted[i] = model.Null()
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true":
			promoted[i] = model.Boolean(true)
		case "false":
			promoted[i] = model.Boolean(false)
		default:
			return nil, false
		}
		sawValue = true
	}
	if !sawValue {
		return nil, false
	}
	return promoted, true
}

// promoteNumeric promotes a string column whose every non-null value parses
// as a decimal
func promoteNumeric(values []model.Value) ([]model.Value, bool) {
	promoted := make([]model.Value, len(values))
	sawValue := false
	for i, v := range values {
		if v.IsNull() {
			promoted[i] = model.Null()
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str))
		if err != nil {
			return nil, false
		}
		promoted[i] = model.Numeric(d)
		sawValue = true
	}
	if !sawValue {
		return nil, false
	}
	return promoted, true
}

// uniformKind returns the single non-null kind shared by all values, or
// KindNull for an all-null column. uniform is false when kinds are mixed.
func uniformKind(values []model.Value) (model.ValueKind, bool) {
	kind := model.KindNull
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if kind == model.KindNull {
			kind = v.Kind
			continue
		}
		if v.Kind != kind {
			return kind, false
		}
	}
	return kind, true
}
