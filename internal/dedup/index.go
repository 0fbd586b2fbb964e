package dedup

import (
	"errors"
	"sort"
	"sync"

	"github.com/AlanRockefeller/rmdup/pkg/models"
	"go.uber.org/zap"
)

// ErrSizeMismatch reports two files with equal fingerprints but differing
// sizes. With differing content that is a hash-space anomaly; the record is
// excluded from grouping rather than merged.
var ErrSizeMismatch = errors.New("fingerprint collision with differing size")

// Index accumulates fingerprint buckets across the whole walk. Safe for
// concurrent Add from hashing workers.
type Index struct {
	mu      sync.Mutex
	buckets map[models.Fingerprint][]models.FileRecord
	logger  *zap.Logger
}

// NewIndex creates an empty grouping index
func NewIndex(logger *zap.Logger) *Index {
	return &Index{
		buckets: make(map[models.Fingerprint][]models.FileRecord),
		logger:  logger,
	}
}

// Add appends record to its fingerprint bucket. Every member of a bucket
// must have the same size; a mismatch returns ErrSizeMismatch and leaves
// the bucket untouched.
func (ix *Index) Add(record models.FileRecord, fp models.Fingerprint) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	bucket := ix.buckets[fp]
	if len(bucket) > 0 && bucket[0].Size != record.Size {
		ix.logger.Error("Fingerprint collision with differing size, excluding file from grouping",
			zap.String("fingerprint", fp.String()),
			zap.String("path", record.Path),
			zap.Int64("size", record.Size),
			zap.String("bucket_path", bucket[0].Path),
			zap.Int64("bucket_size", bucket[0].Size))
		return ErrSizeMismatch
	}

	ix.buckets[fp] = append(bucket, record)
	return nil
}

// Groups returns every bucket with at least two members. Group order and
// member order are deterministic regardless of insertion order.
func (ix *Index) Groups() []models.DuplicateGroup {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var groups []models.DuplicateGroup
	for fp, bucket := range ix.buckets {
		if len(bucket) < 2 {
			continue
		}
		files := append([]models.FileRecord(nil), bucket...)
		sort.Slice(files, func(i, j int) bool {
			return files[i].Path < files[j].Path
		})
		groups = append(groups, models.DuplicateGroup{
			Fingerprint: fp,
			Files:       files,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Files[0].Path < groups[j].Files[0].Path
	})
	return groups
}
