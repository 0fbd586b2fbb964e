package progress

import (
	"sync"
	"time"
)

// Activation thresholds: a run smaller than this never shows progress.
const (
	ByteThreshold = 250 * 1024 * 1024
	FileThreshold = 250
)

// ShouldActivate reports whether the candidate set is large enough to be
// worth a progress display.
func ShouldActivate(files int, bytes int64) bool {
	return bytes > ByteThreshold || files > FileThreshold
}

// Sink receives pipeline progress events. Implementations must be cheap;
// the engine calls Bytes from hashing workers.
type Sink interface {
	Start(totalFiles int, totalBytes int64)
	Bytes(n int64)
	FileDone(path string)
	Finish()
}

// NoopSink discards all progress events.
type NoopSink struct{}

var _ Sink = NoopSink{}

func (NoopSink) Start(totalFiles int, totalBytes int64) {}
func (NoopSink) Bytes(n int64)                          {}
func (NoopSink) FileDone(path string)                   {}
func (NoopSink) Finish()                                {}

// Throttled wraps a Sink and coalesces byte updates so the underlying
// display is driven at roughly 10 Hz instead of once per read block.
type Throttled struct {
	sink     Sink
	interval time.Duration

	mu      sync.Mutex
	pending int64
	last    time.Time
}

// NewThrottled wraps sink with a 100ms coalescing window.
func NewThrottled(sink Sink) *Throttled {
	return &Throttled{sink: sink, interval: 100 * time.Millisecond}
}

func (t *Throttled) Start(totalFiles int, totalBytes int64) {
	t.sink.Start(totalFiles, totalBytes)
}

func (t *Throttled) Bytes(n int64) {
	t.mu.Lock()
	t.pending += n
	now := time.Now()
	if now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return
	}
	flush := t.pending
	t.pending = 0
	t.last = now
	t.mu.Unlock()

	t.sink.Bytes(flush)
}

func (t *Throttled) FileDone(path string) {
	t.flush()
	t.sink.FileDone(path)
}

func (t *Throttled) Finish() {
	t.flush()
	t.sink.Finish()
}

func (t *Throttled) flush() {
	t.mu.Lock()
	flush := t.pending
	t.pending = 0
	t.last = time.Now()
	t.mu.Unlock()

	if flush > 0 {
		t.sink.Bytes(flush)
	}
}
