package dedup

import (
	"context"
	"errors"
	"os"

	"github.com/AlanRockefeller/rmdup/pkg/models"
	"go.uber.org/zap"
)

// ErrAborted is returned when the user quits the interactive loop.
var ErrAborted = errors.New("aborted by user")

// GroupAction is the user's verdict on a single group in interactive mode.
// A nil Delete with neither flag set means "delete all candidates".
type GroupAction struct {
	Abort  bool
	Skip   bool
	Delete []models.FileRecord
}

// DecisionProvider supplies confirmation decisions from the caller-facing
// boundary. Implementations block until an answer is available; tests
// substitute a scripted provider.
type DecisionProvider interface {
	// ConfirmBatch asks once whether to delete every candidate in the plan.
	ConfirmBatch(decisions []models.KeeperDecision, reclaimable int64) (bool, error)
	// ReviewGroup asks for one group's verdict. index and total are 1-based
	// display positions.
	ReviewGroup(index, total int, decision models.KeeperDecision) (GroupAction, error)
}

// Coordinator drives confirmation and deletion. It never deletes a file
// without an explicit confirmation from the provider.
type Coordinator struct {
	provider DecisionProvider
	logger   *zap.Logger
	stats    *models.RunStatistics
}

// NewCoordinator creates a deletion coordinator
func NewCoordinator(provider DecisionProvider, logger *zap.Logger, stats *models.RunStatistics) *Coordinator {
	return &Coordinator{
		provider: provider,
		logger:   logger,
		stats:    stats,
	}
}

// Run executes the deletion workflow over all keeper decisions. After ctx is
// cancelled no further group's deletions commence; groups already being
// processed complete.
func (c *Coordinator) Run(ctx context.Context, decisions []models.KeeperDecision, interactive bool) ([]models.GroupOutcome, error) {
	if len(decisions) == 0 {
		return nil, nil
	}
	if interactive {
		return c.runInteractive(ctx, decisions)
	}
	return c.runBatch(ctx, decisions)
}

func (c *Coordinator) runBatch(ctx context.Context, decisions []models.KeeperDecision) ([]models.GroupOutcome, error) {
	var reclaimable int64
	for _, d := range decisions {
		for _, f := range d.Candidates {
			reclaimable += f.Size
		}
	}

	confirmed, err := c.provider.ConfirmBatch(decisions, reclaimable)
	if err != nil {
		return nil, err
	}

	outcomes := make([]models.GroupOutcome, 0, len(decisions))
	if !confirmed {
		c.logger.Info("Batch deletion declined, no files deleted")
		for _, d := range decisions {
			outcomes = append(outcomes, models.GroupOutcome{Decision: d, Skipped: true})
		}
		return outcomes, nil
	}

	for _, d := range decisions {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, c.deleteCandidates(d, d.Candidates))
	}
	return outcomes, nil
}

func (c *Coordinator) runInteractive(ctx context.Context, decisions []models.KeeperDecision) ([]models.GroupOutcome, error) {
	outcomes := make([]models.GroupOutcome, 0, len(decisions))

	for i, d := range decisions {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		action, err := c.provider.ReviewGroup(i+1, len(decisions), d)
		if err != nil {
			return outcomes, err
		}
		if action.Abort {
			c.logger.Info("Run aborted by user", zap.Int("groups_remaining", len(decisions)-i))
			return outcomes, ErrAborted
		}
		if action.Skip {
			outcomes = append(outcomes, models.GroupOutcome{Decision: d, Skipped: true})
			continue
		}

		targets := action.Delete
		if targets == nil {
			targets = d.Candidates
		}
		outcomes = append(outcomes, c.deleteCandidates(d, targets))
	}
	return outcomes, nil
}

// deleteCandidates removes each target independently; one failure never
// stops the siblings. Freed bytes use the size recorded during the walk
// since the file is gone afterwards.
func (c *Coordinator) deleteCandidates(decision models.KeeperDecision, targets []models.FileRecord) models.GroupOutcome {
	outcome := models.GroupOutcome{Decision: decision}

	for _, f := range targets {
		if f.Path == decision.Keeper.Path {
			// The keeper is never a valid deletion target.
			c.logger.Warn("Refusing to delete keeper", zap.String("path", f.Path))
			continue
		}

		if err := os.Remove(f.Path); err != nil {
			c.stats.DeletionErrors++
			c.logger.Warn("Failed to delete file", zap.String("path", f.Path), zap.Error(err))
			outcome.Failed = append(outcome.Failed, f.Path)
			continue
		}

		c.stats.FilesDeleted++
		c.stats.BytesFreed += f.Size
		c.logger.Debug("Deleted duplicate", zap.String("path", f.Path), zap.Int64("size", f.Size))
		outcome.Deleted = append(outcome.Deleted, f)
	}
	return outcome
}
