// pkg/review/writeback.go
package review

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/store"
)

// Phase names one step of the write-back state machine
type Phase int

const (
	// PhaseIdle is the state before a cycle starts
	PhaseIdle Phase = iota
	// PhaseValidating checks the batch against destination limits
	PhaseValidating
	// PhaseMergingBase commits the changed rows to the base table
	PhaseMergingBase
	// PhaseLoggingPending appends the change records to the approval queue
	PhaseLoggingPending
	// PhaseDone is the terminal success state
	PhaseDone
	// PhaseFailed is the terminal failure state
	PhaseFailed
)

// String returns a string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseMergingBase:
		return "merging_base"
	case PhaseLoggingPending:
		return "logging_pending"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OutcomeKind categorizes how a write-back cycle ended
type OutcomeKind int

const (
	// OutcomeNoChanges means the batch was empty and nothing was written
	OutcomeNoChanges OutcomeKind = iota
	// OutcomeValidationFailed means limit checks rejected the batch before
	// any store mutation
	OutcomeValidationFailed
	// OutcomeSuccess means the merge and the pending log both committed
	OutcomeSuccess
	// OutcomeMergeFailed means the base merge failed and the pending log was
	// never attempted
	OutcomeMergeFailed
	// OutcomePendingLogFailed means the base merge committed but the queue
	// insert failed, so the audit trail is missing for this batch
	OutcomePendingLogFailed
	// OutcomeLimitsFetchFailed means the destination constraints could not be
	// read, so the cycle ended before any validation or merge was attempted
	OutcomeLimitsFetchFailed
)

// String returns a string representation of the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoChanges:
		return "no_changes"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeSuccess:
		return "success"
	case OutcomeMergeFailed:
		return "merge_failed"
	case OutcomePendingLogFailed:
		return "pending_log_failed"
	case OutcomeLimitsFetchFailed:
		return "limits_fetch_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one write-back cycle. ValidationErrors is set for
// OutcomeValidationFailed; Err is set for the two failure outcomes.
type Outcome struct {
	Kind             OutcomeKind
	CycleID          string
	ValidationErrors []model.ValidationError
	Err              error
}

// ChangeBatch carries one cycle's input: the changed rows to merge and the
// per-cell change records to validate and log
type ChangeBatch struct {
	Rows    *model.Dataset
	Records []model.ChangeRecord
}

// UpdateColumns returns the distinct storage column names touched by the
// batch, in first-seen order
func (b ChangeBatch) UpdateColumns() []string {
	seen := make(map[string]bool)
	cols := make([]string, 0)
	for _, rec := range b.Records {
		if !seen[rec.Column] {
			seen[rec.Column] = true
			cols = append(cols, rec.Column)
		}
	}
	return cols
}

// WriteBackCoordinator runs the ordered two-phase write-back: validate, merge
// the base table, then append to the pending-approval queue. The ordering is
// the invariant: no queue row may exist for a change that was not durably
// merged.
type WriteBackCoordinator struct {
	store     store.Datastore
	validator *SchemaValidator
	logger    *zap.Logger

	base    store.TableRef
	pending store.TableRef
	keyCols []string
	lockCol string
}

// NewWriteBackCoordinator creates a coordinator for one destination table and
// its pending-queue table. Key and lock columns are storage names.
func NewWriteBackCoordinator(
	st store.Datastore,
	validator *SchemaValidator,
	base, pending store.TableRef,
	keyCols []string,
	lockCol string,
	logger *zap.Logger,
) *WriteBackCoordinator {
	return &WriteBackCoordinator{
		store:     st,
		validator: validator,
		logger:    logger.Named("writeback"),
		base:      base,
		pending:   pending,
		keyCols:   keyCols,
		lockCol:   lockCol,
	}
}

// Run executes one write-back cycle. Steps run in fixed order and none may
// be skipped or reordered; any datastore failure ends the cycle at the
// corresponding failure outcome without retrying.
func (c *WriteBackCoordinator) Run(ctx context.Context, batch ChangeBatch) Outcome {
	cycleID := uuid.New().String()
	logger := c.logger.With(zap.String("cycle_id", cycleID), zap.String("table", c.base.String()))

	if len(batch.Records) == 0 {
		logger.Info("No changes to write back")
		return Outcome{Kind: OutcomeNoChanges, CycleID: cycleID}
	}

	logger.Info("Starting write-back cycle",
		zap.String("phase", PhaseValidating.String()),
		zap.Int("rows", batch.Rows.Len()),
		zap.Int("records", len(batch.Records)))

	limits, err := c.validator.DestinationLimits(ctx, c.base)
	if err != nil {
		logger.Error("Failed to fetch destination limits", zap.Error(err))
		return Outcome{
			Kind:    OutcomeLimitsFetchFailed,
			CycleID: cycleID,
			Err:     &WriteFailure{Stage: "limit fetch", Table: c.base.String(), Err: err},
		}
	}

	if violations := c.validator.Validate(batch.Records, limits); len(violations) > 0 {
		logger.Warn("Write-back rejected by validation",
			zap.String("phase", PhaseFailed.String()),
			zap.Int("violations", len(violations)))
		return Outcome{Kind: OutcomeValidationFailed, CycleID: cycleID, ValidationErrors: violations}
	}

	logger.Info("Validation passed, merging base table",
		zap.String("phase", PhaseMergingBase.String()),
		zap.Strings("columns", batch.UpdateColumns()))

	if err := c.store.MergeRows(ctx, c.base, c.keyCols, batch.UpdateColumns(), c.lockCol, batch.Rows); err != nil {
		logger.Error("Base merge failed, pending log skipped",
			zap.String("phase", PhaseFailed.String()),
			zap.Error(err))
		return Outcome{
			Kind:    OutcomeMergeFailed,
			CycleID: cycleID,
			Err:     &WriteFailure{Stage: "base merge", Table: c.base.String(), Err: err},
		}
	}

	logger.Info("Base merge committed, logging pending changes",
		zap.String("phase", PhaseLoggingPending.String()),
		zap.String("pending_table", c.pending.String()))

	if err := c.logPending(ctx, batch.Records); err != nil {
		logger.Error("Pending log failed after committed merge",
			zap.String("phase", PhaseFailed.String()),
			zap.Error(err))
		return Outcome{
			Kind:    OutcomePendingLogFailed,
			CycleID: cycleID,
			Err:     &WriteFailure{Stage: "pending log", Table: c.pending.String(), Err: err},
		}
	}

	logger.Info("Write-back cycle complete",
		zap.String("phase", PhaseDone.String()),
		zap.Int("records", len(batch.Records)))
	return Outcome{Kind: OutcomeSuccess, CycleID: cycleID}
}

// logPending appends the change records to the approval queue, creating the
// queue table on first use
func (c *WriteBackCoordinator) logPending(ctx context.Context, records []model.ChangeRecord) error {
	exists, err := c.store.TableExists(ctx, c.pending)
	if err != nil {
		return err
	}
	if !exists {
		if err := c.store.CreateTable(ctx, c.pending, store.PendingTableSpec(c.keyCols)); err != nil {
			return err
		}
	}

	entries := make([]model.PendingQueueEntry, len(records))
	for i, rec := range records {
		entries[i] = model.PendingEntryFromRecord(rec)
	}
	return c.store.InsertPending(ctx, c.pending, c.keyCols, entries)
}
