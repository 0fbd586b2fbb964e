package models

import "time"

// RunStatistics accumulates counters across a single run. It is owned by the
// engine; concurrent stages update it under the engine's lock.
type RunStatistics struct {
	FilesScanned      int   `json:"files_scanned"`
	BytesScanned      int64 `json:"bytes_scanned"`
	SkippedSmall      int   `json:"skipped_small"`
	SkippedSymlinks   int   `json:"skipped_symlinks"`
	SkippedUnreadable int   `json:"skipped_unreadable"`
	WalkErrors        int   `json:"walk_errors"`
	FingerprintErrors int   `json:"fingerprint_errors"`
	ConsistencyErrors int   `json:"consistency_errors"`
	DeletionErrors    int   `json:"deletion_errors"`
	DuplicateGroups   int   `json:"duplicate_groups"`
	DuplicateFiles    int   `json:"duplicate_files"`
	FilesDeleted      int   `json:"files_deleted"`
	BytesFreed        int64 `json:"bytes_freed"`
}

// RunReport is the complete result of one run.
type RunReport struct {
	ScannedAt time.Time     `json:"scanned_at"`
	Root      string        `json:"root_path"`
	Duration  time.Duration `json:"duration"`
	Stats     RunStatistics `json:"statistics"`
	Groups    []GroupReport `json:"duplicate_groups,omitempty"`
}

// GroupReport is the report entry for one duplicate group.
type GroupReport struct {
	Fingerprint string       `json:"fingerprint"`
	Keeper      string       `json:"keeper"`
	Files       []FileAction `json:"files"`
}

// FileAction records the final disposition of one group member.
type FileAction struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Action string `json:"action"` // kept, deleted, failed, skipped
}
