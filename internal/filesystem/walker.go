package filesystem

import (
	"os"
	"path/filepath"

	"github.com/AlanRockefeller/rmdup/internal/config"
	"github.com/AlanRockefeller/rmdup/pkg/models"
	"go.uber.org/zap"
)

// Status is the eligibility verdict for a filesystem entry.
type Status int

const (
	StatusAccept Status = iota
	StatusSkipSmall
	StatusSkipSymlink
	StatusSkipUnreadable
)

// Walker walks the filesystem and finds candidate files for fingerprinting
type Walker struct {
	config  *config.Config
	logger  *zap.Logger
	stats   *models.RunStatistics
	exclude map[string]bool
}

// NewWalker creates a new filesystem walker
func NewWalker(cfg *config.Config, logger *zap.Logger, stats *models.RunStatistics) *Walker {
	// Build exclude map for fast lookup
	exclude := make(map[string]bool)
	for _, dir := range cfg.Exclude {
		exclude[dir] = true
	}

	return &Walker{
		config:  cfg,
		logger:  logger,
		stats:   stats,
		exclude: exclude,
	}
}

// Walk recursively walks the directory tree, calling fn for every entry the
// gate accepts. Unreadable directories are logged and skipped, not fatal.
func (w *Walker) Walk(root string, fn func(models.FileRecord) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.stats.WalkErrors++
			w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil // Continue walking
		}

		if info.IsDir() {
			if path != root && w.exclude[info.Name()] {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		record, status := w.gate(path, info)
		switch status {
		case StatusAccept:
			return fn(record)
		case StatusSkipSmall:
			w.stats.SkippedSmall++
			w.logger.Debug("Skipping small file",
				zap.String("path", path),
				zap.Int64("size", info.Size()))
		case StatusSkipSymlink:
			w.stats.SkippedSymlinks++
			w.logger.Debug("Skipping symlink", zap.String("path", path))
		case StatusSkipUnreadable:
			w.stats.SkippedUnreadable++
			w.logger.Debug("Skipping unreadable entry", zap.String("path", path))
		}
		return nil
	})
}

// Collect walks root and gathers all accepted candidates along with their
// total size, which drives progress reporter activation.
func (w *Walker) Collect(root string) ([]models.FileRecord, int64, error) {
	var records []models.FileRecord
	var totalBytes int64

	err := w.Walk(root, func(record models.FileRecord) error {
		records = append(records, record)
		totalBytes += record.Size
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return records, totalBytes, nil
}

// gate decides from metadata alone whether an entry is eligible for
// fingerprinting. filepath.Walk does not follow symlinks, so info describes
// the link itself until we resolve it here.
func (w *Walker) gate(path string, info os.FileInfo) (models.FileRecord, Status) {
	isSymlink := info.Mode()&os.ModeSymlink != 0

	if isSymlink {
		if !w.config.FollowLinks {
			return models.FileRecord{}, StatusSkipSymlink
		}
		// Resolve the link; a broken link or cycle fails the stat.
		target, err := os.Stat(path)
		if err != nil {
			return models.FileRecord{}, StatusSkipUnreadable
		}
		if !target.Mode().IsRegular() {
			return models.FileRecord{}, StatusSkipSymlink
		}
		info = target
	} else if !info.Mode().IsRegular() {
		// Sockets, FIFOs, devices cannot be hashed safely.
		return models.FileRecord{}, StatusSkipUnreadable
	}

	if info.Size() < w.config.MinSizeBytes {
		return models.FileRecord{}, StatusSkipSmall
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return models.FileRecord{
		Path:      abs,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		IsSymlink: isSymlink,
	}, StatusAccept
}
