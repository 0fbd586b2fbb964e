package dedup

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AlanRockefeller/rmdup/internal/config"
	"github.com/AlanRockefeller/rmdup/internal/filesystem"
	"github.com/AlanRockefeller/rmdup/internal/fingerprint"
	"github.com/AlanRockefeller/rmdup/internal/progress"
	"github.com/AlanRockefeller/rmdup/pkg/models"
	"go.uber.org/zap"
)

// Engine is the duplicate detection pipeline: walk, fingerprint, group,
// select keepers, coordinate deletion.
type Engine struct {
	config   *config.Config
	logger   *zap.Logger
	sink     progress.Sink
	provider DecisionProvider

	mu    sync.Mutex
	stats models.RunStatistics
}

// NewEngine creates a new engine instance
func NewEngine(cfg *config.Config, logger *zap.Logger, sink progress.Sink, provider DecisionProvider) *Engine {
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &Engine{
		config:   cfg,
		logger:   logger,
		sink:     sink,
		provider: provider,
	}
}

// Run executes one full pipeline pass over root. The returned report is
// valid even when err is non-nil (cancellation, user abort): it reflects
// all work completed up to that point.
func (e *Engine) Run(ctx context.Context, root string) (*models.RunReport, error) {
	start := time.Now()
	e.logger.Info("Starting duplicate scan",
		zap.String("root", root),
		zap.Int64("min_size", e.config.MinSizeBytes),
		zap.Bool("follow_links", e.config.FollowLinks))

	walker := filesystem.NewWalker(e.config, e.logger, &e.stats)

	var records []models.FileRecord
	var totalBytes int64
	walkErr := walker.Walk(root, func(record models.FileRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		records = append(records, record)
		totalBytes += record.Size
		return nil
	})
	if walkErr != nil {
		return e.buildReport(root, start, nil), walkErr
	}

	e.logger.Info("Walk complete",
		zap.Int("candidates", len(records)),
		zap.String("total_size", filesystem.FormatSize(totalBytes)))

	// The progress display only earns its overhead on large runs.
	sink := e.sink
	if !progress.ShouldActivate(len(records), totalBytes) {
		sink = progress.NoopSink{}
	}
	throttled := progress.NewThrottled(sink)
	throttled.Start(len(records), totalBytes)

	index := NewIndex(e.logger)
	fpEngine := fingerprint.NewEngine(throttled)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.EffectiveWorkers())
	for _, record := range records {
		record := record
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := fpEngine.Fingerprint(gctx, record)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Unreadable mid-hash: exclude from grouping, keep going.
				e.mu.Lock()
				e.stats.FingerprintErrors++
				e.mu.Unlock()
				e.logger.Warn("Failed to fingerprint file",
					zap.String("path", record.Path), zap.Error(err))
				return nil
			}

			e.mu.Lock()
			e.stats.FilesScanned++
			e.stats.BytesScanned += record.Size
			e.mu.Unlock()

			if err := index.Add(record, fp); err != nil {
				e.mu.Lock()
				e.stats.ConsistencyErrors++
				e.mu.Unlock()
			}
			return nil
		})
	}
	hashErr := g.Wait()
	throttled.Finish()
	if hashErr != nil {
		return e.buildReport(root, start, nil), hashErr
	}

	groups := index.Groups()
	decisions := make([]models.KeeperDecision, 0, len(groups))
	for _, group := range groups {
		decision := SelectKeeper(group)
		e.stats.DuplicateGroups++
		e.stats.DuplicateFiles += len(group.Files) - 1
		e.logger.Debug("Duplicate group",
			zap.String("fingerprint", group.Fingerprint.String()),
			zap.Int("members", len(group.Files)),
			zap.String("keeper", decision.Keeper.Path))
		decisions = append(decisions, decision)
	}

	coordinator := NewCoordinator(e.provider, e.logger, &e.stats)
	outcomes, runErr := coordinator.Run(ctx, decisions, e.config.Interactive)

	report := e.buildReport(root, start, outcomes)
	e.logger.Info("Scan completed",
		zap.Duration("duration", report.Duration),
		zap.Int("duplicate_groups", report.Stats.DuplicateGroups),
		zap.Int("files_deleted", report.Stats.FilesDeleted),
		zap.String("bytes_freed", filesystem.FormatSize(report.Stats.BytesFreed)))
	return report, runErr
}

// Stats returns a snapshot of the run counters.
func (e *Engine) Stats() models.RunStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) buildReport(root string, start time.Time, outcomes []models.GroupOutcome) *models.RunReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := &models.RunReport{
		ScannedAt: start,
		Root:      root,
		Duration:  time.Since(start),
		Stats:     e.stats,
	}

	for _, outcome := range outcomes {
		decision := outcome.Decision
		actions := make(map[string]string, len(decision.Group.Files))
		for _, f := range outcome.Deleted {
			actions[f.Path] = "deleted"
		}
		for _, path := range outcome.Failed {
			actions[path] = "failed"
		}

		entry := models.GroupReport{
			Fingerprint: decision.Group.Fingerprint.String(),
			Keeper:      decision.Keeper.Path,
		}
		entry.Files = append(entry.Files, models.FileAction{
			Path:   decision.Keeper.Path,
			Size:   decision.Keeper.Size,
			Action: "kept",
		})
		for _, f := range decision.Candidates {
			action, ok := actions[f.Path]
			if !ok {
				action = "skipped"
			}
			entry.Files = append(entry.Files, models.FileAction{
				Path:   f.Path,
				Size:   f.Size,
				Action: action,
			})
		}
		report.Groups = append(report.Groups, entry)
	}
	return report
}
