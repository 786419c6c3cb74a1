// pkg/review/session.go
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/config"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/store"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/tagger"
)

// Session is the per-caller context for one review table: the loaded and
// tagged dataset, the snapshot diffs run against, and the filter selections.
// Created on first load, replaced wholesale on reload, discarded at session
// end. Filter selections are two-phase: a mutable draft and an immutable
// committed set, with the committed set replaced only by ApplyFilters.
type Session struct {
	cfg         *config.ReviewConfig
	loader      *store.CachedLoader
	tagger      *tagger.TypeTagger
	filters     *FilterEngine
	detector    *ChangeDetector
	coordinator *WriteBackCoordinator
	logger      *zap.Logger

	base    store.TableRef
	pending store.TableRef

	dataset   *model.Dataset
	tags      map[string]model.ColumnTag
	draft     model.FilterSet
	committed model.FilterSet

	original *model.Dataset
	editing  bool
}

// NewSession wires a session for the configured review table
func NewSession(cfg *config.ReviewConfig, st store.Datastore, loader *store.CachedLoader, logger *zap.Logger) *Session {
	base := store.TableRef{Database: cfg.Database, Schema: cfg.Schema, Table: cfg.Table}
	pending := base.WithTable(cfg.PendingTable)
	validator := NewSchemaValidator(st, logger)

	return &Session{
		cfg:      cfg,
		loader:   loader,
		tagger:   tagger.NewTypeTagger(logger),
		filters:  NewFilterEngine(logger),
		detector: NewChangeDetector(cfg.PrimaryKey, cfg.LockColumn, logger),
		coordinator: NewWriteBackCoordinator(
			st, validator, base, pending, cfg.PrimaryKey, cfg.LockColumn, logger),
		logger:  logger.Named("session"),
		base:    base,
		pending: pending,
	}
}

// Load fetches and tags the review table, replacing any previous state. Any
// in-progress edit and all filter selections are discarded.
func (s *Session) Load(ctx context.Context) error {
	raw, err := s.loader.Load(ctx, s.base, s.cfg.OrderBy)
	if err != nil {
		return fmt.Errorf("failed to load review table: %w", err)
	}

	tagged, tags := s.tagger.Tag(raw)
	s.dataset = tagged
	s.tags = tags
	s.draft = s.filters.Reset(tagged, tags)
	s.committed = s.draft.Clone()
	s.original = nil
	s.editing = false

	s.logger.Info("Session loaded",
		zap.String("table", s.base.String()),
		zap.Int("rows", tagged.Len()),
		zap.Int("columns", len(tagged.Columns)))
	return nil
}

// Reload drops the cached copy of the table and loads fresh
func (s *Session) Reload(ctx context.Context) error {
	s.loader.Invalidate(s.base)
	return s.Load(ctx)
}

// Loaded reports whether the session holds a dataset
func (s *Session) Loaded() bool {
	return s.dataset != nil
}

// Tags returns the column tags of the loaded dataset
func (s *Session) Tags() map[string]model.ColumnTag {
	return s.tags
}

// Columns returns the display column names of the loaded dataset
func (s *Session) Columns() []string {
	if s.dataset == nil {
		return nil
	}
	return s.dataset.Columns
}

// StageFilter records a draft selection for one column. It does not change
// the displayed view until ApplyFilters commits the draft.
func (s *Session) StageFilter(col string, sel model.Selection) {
	if s.draft == nil {
		return
	}
	s.draft[col] = sel
}

// StagedFilters returns a copy of the draft selection set
func (s *Session) StagedFilters() model.FilterSet {
	return s.draft.Clone()
}

// ApplyFilters commits the draft selections, making them the set the view is
// derived from
func (s *Session) ApplyFilters() {
	s.committed = s.draft.Clone()
}

// ResetFilters restores both the draft and committed selections to their
// all-default values
func (s *Session) ResetFilters() {
	if s.dataset == nil {
		return
	}
	s.draft = s.filters.Reset(s.dataset, s.tags)
	s.committed = s.draft.Clone()
}

// View returns the filtered dataset capped at the configured row limit. The
// result is caller-owned; editing it never touches session state.
func (s *Session) View() *model.Dataset {
	if s.dataset == nil {
		return nil
	}
	filtered := s.filters.Apply(s.dataset, s.tags, s.committed)
	return filtered.Head(s.cfg.MaxRows)
}

// BeginEdit snapshots the current view and returns an editable copy of it.
// Diffs in Save run against the snapshot, so filter changes made mid-edit
// cannot shift row identity under the editor.
func (s *Session) BeginEdit() *model.Dataset {
	view := s.View()
	if view == nil {
		return nil
	}
	s.original = view.Clone()
	s.editing = true
	return view
}

// CancelEdit discards the edit snapshot without writing anything
func (s *Session) CancelEdit() {
	s.original = nil
	s.editing = false
}

// Save diffs the edited dataset against the edit snapshot and runs the full
// write-back cycle. On success the loader cache is invalidated and the table
// reloaded so the session observes the committed state. A structural error
// aborts before any store mutation.
func (s *Session) Save(ctx context.Context, edited *model.Dataset) (Outcome, error) {
	if !s.editing || s.original == nil {
		return Outcome{}, fmt.Errorf("no edit in progress")
	}

	rows, err := s.detector.ChangedRows(edited, s.original)
	if err != nil {
		return Outcome{}, err
	}
	records, err := s.detector.BuildChangeLog(edited, s.original)
	if err != nil {
		return Outcome{}, err
	}

	outcome := s.coordinator.Run(ctx, ChangeBatch{Rows: rows, Records: records})

	switch outcome.Kind {
	case OutcomeSuccess, OutcomePendingLogFailed:
		// the base merge committed, so the cached copy is stale either way
		s.editing = false
		s.original = nil
		if err := s.Reload(ctx); err != nil {
			return outcome, err
		}
	case OutcomeNoChanges:
		s.editing = false
		s.original = nil
	}
	return outcome, nil
}
