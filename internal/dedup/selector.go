package dedup

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/AlanRockefeller/rmdup/pkg/models"
)

// parenNumberRe matches the numeric suffix in names like "photo (1).jpg".
var parenNumberRe = regexp.MustCompile(`\((\d+)\)`)

// SelectKeeper designates exactly one member of the group to survive and
// orders the rest as deletion candidates.
//
// Files named like "name (1).ext" are usually re-downloads or copies, so
// when the group holds exactly one parenthesis-free name it wins. Otherwise
// the oldest copy is kept, with the full path breaking modification-time
// ties. The result does not depend on the order of group.Files.
func SelectKeeper(group models.DuplicateGroup) models.KeeperDecision {
	members := append([]models.FileRecord(nil), group.Files...)
	sort.Slice(members, func(i, j int) bool {
		if !members[i].ModTime.Equal(members[j].ModTime) {
			return members[i].ModTime.Before(members[j].ModTime)
		}
		return members[i].Path < members[j].Path
	})

	var plain, parenthesized []models.FileRecord
	for _, m := range members {
		if strings.ContainsRune(m.Name, '(') {
			parenthesized = append(parenthesized, m)
		} else {
			plain = append(plain, m)
		}
	}

	if len(plain) == 1 && len(parenthesized) > 0 {
		candidates := append([]models.FileRecord(nil), parenthesized...)
		sort.SliceStable(candidates, func(i, j int) bool {
			ni, oki := parenSuffix(candidates[i].Name)
			nj, okj := parenSuffix(candidates[j].Name)
			switch {
			case oki && okj:
				if ni != nj {
					return ni < nj
				}
				return candidates[i].Name < candidates[j].Name
			case oki:
				return true
			case okj:
				return false
			default:
				return candidates[i].Name < candidates[j].Name
			}
		})
		return models.KeeperDecision{Group: group, Keeper: plain[0], Candidates: candidates}
	}

	// No distinguishing name signal: keep the oldest copy.
	return models.KeeperDecision{Group: group, Keeper: members[0], Candidates: members[1:]}
}

// parenSuffix returns the last parenthesized number in a filename.
func parenSuffix(name string) (int, bool) {
	matches := parenNumberRe.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return n, true
}
