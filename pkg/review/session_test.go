// pkg/review/session_test.go
package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/config"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/store"
)

func sessionFixture(t *testing.T) (*Session, *fakeDatastore) {
	t.Helper()

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

	fake := &fakeDatastore{dataset: ds, pendingExists: true}

	cfg := &config.ReviewConfig{
		Schema:       "public",
		Table:        "orders",
		PrimaryKey:   []string{"id"},
		LockColumn:   "updated",
		PendingTable: "orders_pending_changes",
		MaxRows:      500,
		CacheTTL:     time.Minute,
	}

	loader := store.NewCachedLoader(fake, cfg.CacheTTL, zap.NewNop())
	return NewSession(cfg, fake, loader, zap.NewNop()), fake
}

func TestSessionLoadTagsColumns(t *testing.T) {
	session, _ := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	assert.True(t, session.Loaded())
	assert.Equal(t, []string{"ID", "Name", "Updated"}, session.Columns())
	assert.Equal(t, model.TypeDatetime, session.Tags()["Updated"].Type)
	assert.Equal(t, 2, session.View().Len())
}

func TestSessionStagedFiltersApplyOnlyOnCommit(t *testing.T) {
	session, _ := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	session.StageFilter("Name", model.SelectionEquals(model.String("Alice")))

	// draft holds the selection but the view is still unfiltered
	assert.Equal(t, model.SelectEquals, session.StagedFilters()["Name"].Kind)
	assert.Equal(t, 2, session.View().Len())

	session.ApplyFilters()
	assert.Equal(t, 1, session.View().Len())

	session.ResetFilters()
	assert.Equal(t, 2, session.View().Len())
}

func TestSessionSaveRunsFullCycleAndReloads(t *testing.T) {
	session, fake := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	edited := session.BeginEdit()
	require.NotNil(t, edited)
	edited.Rows[0]["Name"] = model.String("Alicia")

	outcome, err := session.Save(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome.Kind)

	require.Len(t, fake.inserted, 1)
	assert.Equal(t, "name", fake.inserted[0].Column)
	require.NotNil(t, fake.merged)
	assert.Equal(t, 1, fake.merged.Len())

	// session reloaded fresh after the committed write
	assert.True(t, session.Loaded())
	assert.Contains(t, fake.calls, "LoadTable")
}

func TestSessionSaveWithoutEditFails(t *testing.T) {
	session, _ := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	_, err := session.Save(context.Background(), session.View())
	assert.Error(t, err)
}

func TestSessionSaveNoChanges(t *testing.T) {
	session, fake := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	edited := session.BeginEdit()
	outcome, err := session.Save(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoChanges, outcome.Kind)
	assert.Empty(t, fake.inserted)
}

func TestSessionViewCapsRows(t *testing.T) {
	session, fake := sessionFixture(t)
	for i := 3; i <= 20; i++ {
		fake.dataset.Append(model.Row{
			"ID":      model.NumericFromInt(int64(i)),
			"Name":    model.String("Filler"),
			"Updated": model.Datetime(time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)),
		})
	}
	session.cfg.MaxRows = 5

	require.NoError(t, session.Load(context.Background()))
	assert.Equal(t, 5, session.View().Len())
}

func TestSessionCancelEditDiscardsSnapshot(t *testing.T) {
	session, fake := sessionFixture(t)
	require.NoError(t, session.Load(context.Background()))

	edited := session.BeginEdit()
	edited.Rows[0]["Name"] = model.String("Alicia")
	session.CancelEdit()

	_, err := session.Save(context.Background(), edited)
	assert.Error(t, err)
	assert.Empty(t, fake.inserted)
}
