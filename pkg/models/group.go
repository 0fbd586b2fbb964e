package models

// DuplicateGroup is a set of at least two files sharing identical content.
// All members have the same fingerprint and the same size.
type DuplicateGroup struct {
	Fingerprint Fingerprint
	Files       []FileRecord
}

// WastedBytes returns the space reclaimable by keeping a single copy.
func (g *DuplicateGroup) WastedBytes() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return int64(len(g.Files)-1) * g.Files[0].Size
}

// KeeperDecision names the group member that survives deletion and orders
// the remaining members as deletion candidates.
type KeeperDecision struct {
	Group      DuplicateGroup
	Keeper     FileRecord
	Candidates []FileRecord
}

// GroupOutcome records what actually happened to one group's candidates.
type GroupOutcome struct {
	Decision KeeperDecision
	Deleted  []FileRecord
	Failed   []string // paths whose deletion failed
	Skipped  bool     // group skipped by the user
}
