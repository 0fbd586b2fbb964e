package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/AlanRockefeller/rmdup/internal/progress"
)

// barSink renders hashing progress as a byte-based progress bar. The engine
// only drives it above the activation threshold, so small scans stay quiet.
type barSink struct {
	bar *progressbar.ProgressBar
}

var _ progress.Sink = (*barSink)(nil)

func (s *barSink) Start(totalFiles int, totalBytes int64) {
	fmt.Printf("Hashing %d files...\n", totalFiles)
	s.bar = progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetDescription("Hashing"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

func (s *barSink) Bytes(n int64) {
	if s.bar != nil {
		_ = s.bar.Add64(n)
	}
}

func (s *barSink) FileDone(path string) {}

func (s *barSink) Finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
		fmt.Println()
	}
}
