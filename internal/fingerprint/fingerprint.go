package fingerprint

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/sha256-simd"

	"github.com/AlanRockefeller/rmdup/internal/progress"
	"github.com/AlanRockefeller/rmdup/pkg/models"
)

// BlockSize is the read granularity. Peak memory per worker is one block
// regardless of file size.
const BlockSize = 256 * 1024

// Engine computes content fingerprints for candidate files
type Engine struct {
	sink progress.Sink
}

// NewEngine creates a fingerprint engine reporting progress to sink
func NewEngine(sink progress.Sink) *Engine {
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &Engine{sink: sink}
}

// Fingerprint streams the file content through SHA-256 in fixed-size blocks.
// A read failure mid-file returns an error and the zero fingerprint; callers
// must exclude the file from grouping rather than use the partial digest.
func (e *Engine) Fingerprint(ctx context.Context, record models.FileRecord) (models.Fingerprint, error) {
	var fp models.Fingerprint

	f, err := os.Open(record.Path)
	if err != nil {
		return fp, fmt.Errorf("failed to open %s: %w", record.Path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, BlockSize)
	for {
		select {
		case <-ctx.Done():
			return fp, ctx.Err()
		default:
		}

		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			e.sink.Bytes(int64(n))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fp, fmt.Errorf("failed to read %s: %w", record.Path, err)
		}
	}

	copy(fp[:], h.Sum(nil))
	e.sink.FileDone(record.Path)
	return fp, nil
}
