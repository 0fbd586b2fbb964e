package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlanRockefeller/rmdup/internal/config"
	"github.com/AlanRockefeller/rmdup/pkg/models"
	"go.uber.org/zap"
)

func newTestWalker(cfg *config.Config) (*Walker, *models.RunStatistics) {
	stats := &models.RunStatistics{}
	return NewWalker(cfg, zap.NewNop(), stats), stats
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestWalk_CollectsRegularFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "hello")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "world!")

	sub := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "c.txt"), "nested")

	w, _ := newTestWalker(&config.Config{})
	records, totalBytes, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Collect() records = %d, want 3", len(records))
	}
	if totalBytes != int64(len("hello")+len("world!")+len("nested")) {
		t.Errorf("Collect() totalBytes = %d", totalBytes)
	}
	for _, r := range records {
		if !filepath.IsAbs(r.Path) {
			t.Errorf("Record path not absolute: %s", r.Path)
		}
	}
}

func TestWalk_MinSizeFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "small.txt"), "x")
	writeFile(t, filepath.Join(tmpDir, "big.txt"), "this one is big enough")

	w, stats := newTestWalker(&config.Config{MinSizeBytes: 10})
	records, _, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Collect() records = %d, want 1", len(records))
	}
	if records[0].Name != "big.txt" {
		t.Errorf("Accepted file = %s, want big.txt", records[0].Name)
	}
	if stats.SkippedSmall != 1 {
		t.Errorf("SkippedSmall = %d, want 1", stats.SkippedSmall)
	}
}

func TestWalk_SymlinksSkippedByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "target.txt")
	writeFile(t, target, "content")

	link := filepath.Join(tmpDir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w, stats := newTestWalker(&config.Config{})
	records, _, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Collect() records = %d, want 1", len(records))
	}
	if stats.SkippedSymlinks != 1 {
		t.Errorf("SkippedSymlinks = %d, want 1", stats.SkippedSymlinks)
	}
	if stats.SkippedUnreadable != 0 {
		t.Errorf("SkippedUnreadable = %d, want 0", stats.SkippedUnreadable)
	}
}

func TestWalk_FollowLinks(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "target.txt")
	writeFile(t, target, "content")

	link := filepath.Join(tmpDir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w, _ := newTestWalker(&config.Config{FollowLinks: true})
	records, _, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Collect() records = %d, want 2", len(records))
	}

	var linkRecord *models.FileRecord
	for i := range records {
		if records[i].Name == "link.txt" {
			linkRecord = &records[i]
		}
	}
	if linkRecord == nil {
		t.Fatal("Symlink not collected with follow-links enabled")
	}
	if !linkRecord.IsSymlink {
		t.Error("Resolved symlink record not flagged as symlink")
	}
	if linkRecord.Size != int64(len("content")) {
		t.Errorf("Symlink record size = %d, want target size %d", linkRecord.Size, len("content"))
	}
}

func TestWalk_BrokenLinkUnreadable(t *testing.T) {
	tmpDir := t.TempDir()
	link := filepath.Join(tmpDir, "dangling.txt")
	if err := os.Symlink(filepath.Join(tmpDir, "gone.txt"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w, stats := newTestWalker(&config.Config{FollowLinks: true})
	records, _, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 0 {
		t.Fatalf("Collect() records = %d, want 0", len(records))
	}
	if stats.SkippedUnreadable != 1 {
		t.Errorf("SkippedUnreadable = %d, want 1", stats.SkippedUnreadable)
	}
}

func TestWalk_ExcludedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "keep.txt"), "keep")

	gitDir := filepath.Join(tmpDir, ".git")
	if err := os.Mkdir(gitDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(gitDir, "object"), "ignored")

	w, _ := newTestWalker(&config.Config{Exclude: []string{".git"}})
	records, _, err := w.Collect(tmpDir)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Collect() records = %d, want 1", len(records))
	}
	if records[0].Name != "keep.txt" {
		t.Errorf("Accepted file = %s, want keep.txt", records[0].Name)
	}
}
