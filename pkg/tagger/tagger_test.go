// pkg/tagger/tagger_test.go
package tagger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

func datasetFromColumn(col string, values ...model.Value) *model.Dataset {
	ds := model.NewDataset([]string{col})
	for _, v := range values {
		ds.Append(model.Row{col: v})
	}
	return ds
}

func TestTagAllMidnightTimestampsBecomeDate(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Updated",
		model.Datetime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		model.Datetime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		model.Null(),
	)

	tagged, tags := tagger.Tag(ds)

	assert.Equal(t, model.TypeDate, tags["Updated"].Type)
	assert.Equal(t, model.KindDate, tagged.Rows[0].Get("Updated").Kind)
	assert.True(t, tagged.Rows[2].Get("Updated").IsNull())
}

func TestTagOneNonMidnightValueStaysDatetime(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Updated",
		model.Datetime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		model.Datetime(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)),
	)

	_, tags := tagger.Tag(ds)

	tag := tags["Updated"]
	assert.Equal(t, model.TypeDatetime, tag.Type)
	require.True(t, tag.HasBounds)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tag.MinBound)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), tag.MaxBound)
}

func TestTagUnparseableValueLeavesColumnUnchanged(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("When",
		model.String("2024-01-01 00:00:00"),
		model.String("not a timestamp"),
	)

	tagged, tags := tagger.Tag(ds)

	assert.Equal(t, model.TypeString, tags["When"].Type)
	assert.Equal(t, model.String("not a timestamp"), tagged.Rows[1].Get("When"))
}

func TestTagPromotesStringTimestamps(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("When",
		model.String("2024-01-01 09:30:00"),
		model.Null(),
		model.String("2024-01-03 00:00:00"),
	)

	tagged, tags := tagger.Tag(ds)

	tag := tags["When"]
	assert.Equal(t, model.TypeDatetime, tag.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tag.MinBound)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), tag.MaxBound)
	assert.Equal(t, model.KindDatetime, tagged.Rows[0].Get("When").Kind)
	assert.True(t, tagged.Rows[1].Get("When").IsNull())
}

func TestTagPromotesBooleanAndNumericStrings(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := model.NewDataset([]string{"Flag", "Amount"})
	ds.Append(model.Row{"Flag": model.String("true"), "Amount": model.String("12.50")})
	ds.Append(model.Row{"Flag": model.String("FALSE"), "Amount": model.String("-3")})
	ds.Append(model.Row{"Flag": model.Null(), "Amount": model.Null()})

	tagged, tags := tagger.Tag(ds)

	assert.Equal(t, model.TypeBoolean, tags["Flag"].Type)
	assert.Equal(t, model.TypeNumeric, tags["Amount"].Type)
	assert.Equal(t, model.Boolean(true), tagged.Rows[0].Get("Flag"))
	assert.Equal(t, model.KindNumeric, tagged.Rows[0].Get("Amount").Kind)
}

func TestTagPartialNumericColumnStaysString(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Amount",
		model.String("12.50"),
		model.String("twelve"),
	)

	_, tags := tagger.Tag(ds)
	assert.Equal(t, model.TypeString, tags["Amount"].Type)
}

func TestTagMixedKindColumnStaysString(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Oddball",
		model.NumericFromInt(1),
		model.String("two"),
	)

	_, tags := tagger.Tag(ds)
	assert.Equal(t, model.TypeString, tags["Oddball"].Type)
}

func TestTagAllNullColumn(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Empty", model.Null(), model.Null())

	_, tags := tagger.Tag(ds)
	assert.Equal(t, model.TypeString, tags["Empty"].Type)
	assert.False(t, tags["Empty"].HasBounds)
}

func TestTagDoesNotMutateInput(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := datasetFromColumn("Flag", model.String("true"))

	tagger.Tag(ds)
	assert.Equal(t, model.String("true"), ds.Rows[0].Get("Flag"))
}

func TestTagExampleScenario(t *testing.T) {
	tagger := NewTypeTagger(zap.NewNop())
	ds := model.NewDataset([]string{"ID", "Name", "Updated"})
	ds.Append(model.Row{
		"ID":      model.NumericFromInt(1),
		"Name":    model.String("Alice"),
		"Updated": model.Datetime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	ds.Append(model.Row{
		"ID":      model.NumericFromInt(2),
		"Name":    model.String("Bob"),
		"Updated": model.Datetime(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)),
	})

	_, tags := tagger.Tag(ds)

	assert.Equal(t, model.TypeNumeric, tags["ID"].Type)
	assert.Equal(t, model.TypeString, tags["Name"].Type)

	updated := tags["Updated"]
	assert.Equal(t, model.TypeDatetime, updated.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), updated.MinBound)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), updated.MaxBound)
}
