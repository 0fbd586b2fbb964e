package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AlanRockefeller/rmdup/internal/config"
	"github.com/AlanRockefeller/rmdup/internal/dedup"
	"github.com/AlanRockefeller/rmdup/internal/filesystem"
	"github.com/AlanRockefeller/rmdup/pkg/models"
)

// ANSI colors
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorGray  = "\033[38;5;245m"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		interactive bool
		verbose     bool
		debug       bool
		followLinks bool
		minSize     string
		workers     int
		exclude     []string
		reportFile  string
	)

	cmd := &cobra.Command{
		Use:   "rmdup [directory]",
		Short: "Find and delete duplicate files",
		Long: `rmdup recursively looks for files with byte-identical content under a
directory and offers to delete the redundant copies. Files named like
"name (1).ext" are usually extra downloads, so the parenthesis-free
original is kept; otherwise the oldest copy survives.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(verbose, debug)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			// Load configuration
			cfg, err := config.Load()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			if interactive {
				cfg.Interactive = true
			}
			if followLinks {
				cfg.FollowLinks = true
			}
			if minSize != "" {
				cfg.MinSize = minSize
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if reportFile != "" {
				cfg.ReportFile = reportFile
			}
			cfg.Verbose = verbose
			cfg.Debug = debug

			root := cfg.Directory
			if len(args) == 1 {
				root = args[0]
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("invalid directory %q: %w", root, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", root)
			}

			minBytes, err := filesystem.ParseSize(cfg.MinSize)
			if err != nil {
				return fmt.Errorf("invalid --min-size: %w", err)
			}
			cfg.MinSizeBytes = minBytes

			// Ctrl-C stops issuing new deletions; in-flight ones complete.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := dedup.NewEngine(cfg, logger, &barSink{}, newConsoleProvider())
			report, runErr := engine.Run(ctx, root)

			switch {
			case errors.Is(runErr, dedup.ErrAborted):
				fmt.Println("Aborted by user.")
			case errors.Is(runErr, context.Canceled):
				fmt.Println("\nInterrupted.")
			case runErr != nil:
				return runErr
			}

			if report.Stats.DuplicateGroups == 0 && runErr == nil {
				fmt.Println("No duplicate files found.")
			} else {
				printSummary(report)
			}

			if cfg.ReportFile != "" {
				if err := dedup.WriteReport(cfg.ReportFile, report); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to save report: %v\n", err)
				} else {
					fmt.Println("Report saved to:", cfg.ReportFile)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Confirm deletions group by group")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging (group membership, deletion plan)")
	cmd.Flags().BoolVarP(&followLinks, "follow-links", "L", false, "Follow symbolic links")
	cmd.Flags().StringVarP(&minSize, "min-size", "s", "", "Minimum file size to consider (e.g. 1M, 500 KB)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of hashing workers (default: CPU cores)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Directory names to exclude (comma-separated)")
	cmd.Flags().StringVar(&reportFile, "report", "", "Path to save JSON report (optional)")

	return cmd
}

// buildLogger selects the logger the same way the scan verbosity flags do:
// human-readable in verbose/debug runs, JSON errors-only otherwise.
func buildLogger(verbose, debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

func printSummary(report *models.RunReport) {
	stats := report.Stats
	fmt.Println()
	fmt.Printf("%s===== Summary =====%s\n", colorBold, colorReset)
	fmt.Printf("  %sDuplicate groups:%s %d\n", colorGray, colorReset, stats.DuplicateGroups)
	fmt.Printf("  %sDuplicate files:%s  %d\n", colorGray, colorReset, stats.DuplicateFiles)
	fmt.Printf("  %sFiles scanned:%s    %d (%s)\n", colorGray, colorReset,
		stats.FilesScanned, filesystem.FormatSize(stats.BytesScanned))
	fmt.Printf("  %sFiles deleted:%s    %d\n", colorGray, colorReset, stats.FilesDeleted)
	fmt.Printf("  %sSpace freed:%s      %s\n", colorGray, colorReset, filesystem.FormatSize(stats.BytesFreed))

	skipped := stats.SkippedSmall + stats.SkippedSymlinks + stats.SkippedUnreadable
	if skipped > 0 {
		fmt.Printf("  %sSkipped:%s          %d (%d small, %d symlinks, %d unreadable)\n",
			colorGray, colorReset, skipped, stats.SkippedSmall, stats.SkippedSymlinks, stats.SkippedUnreadable)
	}
	if stats.FingerprintErrors > 0 || stats.WalkErrors > 0 {
		fmt.Printf("  %sRead errors:%s      %d\n", colorGray, colorReset,
			stats.FingerprintErrors+stats.WalkErrors)
	}
	if stats.DeletionErrors > 0 {
		fmt.Printf("  %s⚠ Failed deletions:%s %d\n", colorRed, colorReset, stats.DeletionErrors)
	}
	if stats.ConsistencyErrors > 0 {
		fmt.Printf("  %s⚠ Consistency errors:%s %d (see log)\n", colorRed, colorReset, stats.ConsistencyErrors)
	}
}
