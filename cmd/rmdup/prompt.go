package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlanRockefeller/rmdup/internal/dedup"
	"github.com/AlanRockefeller/rmdup/internal/filesystem"
	"github.com/AlanRockefeller/rmdup/pkg/models"
)

// consoleProvider answers the engine's confirmation requests from the
// terminal. An EOF on stdin counts as "no".
type consoleProvider struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsoleProvider() *consoleProvider {
	return &consoleProvider{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

var _ dedup.DecisionProvider = (*consoleProvider)(nil)

func (p *consoleProvider) ConfirmBatch(decisions []models.KeeperDecision, reclaimable int64) (bool, error) {
	fmt.Fprintln(p.out, "Files proposed for deletion:")
	for _, d := range decisions {
		fmt.Fprintf(p.out, "%s----%s\n", colorGray, colorReset)
		fmt.Fprintf(p.out, "  %skeep%s   %s\n", colorBold, colorReset, d.Keeper.Path)
		for _, c := range d.Candidates {
			fmt.Fprintf(p.out, "  %sdelete%s %s (%s)\n", colorRed, colorReset,
				c.Path, filesystem.FormatSize(c.Size))
		}
	}
	fmt.Fprintf(p.out, "\nThis would free %s%s%s.\n", colorBold,
		filesystem.FormatSize(reclaimable), colorReset)
	fmt.Fprint(p.out, "Are you sure you want to delete these files? (y/n) ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		fmt.Fprintln(p.out)
		return false, nil
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}

func (p *consoleProvider) ReviewGroup(index, total int, decision models.KeeperDecision) (dedup.GroupAction, error) {
	fmt.Fprintf(p.out, "\n%sGroup %d/%d%s (%d copies, %s each)\n",
		colorBold, index, total, colorReset,
		len(decision.Group.Files), filesystem.FormatSize(decision.Keeper.Size))
	fmt.Fprintf(p.out, "  %skeep%s %s\n", colorBold, colorReset, decision.Keeper.Path)
	for i, c := range decision.Candidates {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, c.Path)
	}
	fmt.Fprintln(p.out, "Options: Enter=delete all, numbers (comma-separated)=delete selection, s=skip, q=quit")
	fmt.Fprint(p.out, "Choose: ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		fmt.Fprintln(p.out)
		return dedup.GroupAction{Abort: true}, nil
	}

	choice := strings.TrimSpace(strings.ToLower(line))
	switch choice {
	case "":
		return dedup.GroupAction{}, nil // delete all candidates
	case "s":
		return dedup.GroupAction{Skip: true}, nil
	case "q":
		return dedup.GroupAction{Abort: true}, nil
	}

	// Numeric selection. An empty but non-nil slice deletes nothing, so
	// garbage input never widens into "delete everything".
	targets := make([]models.FileRecord, 0, len(decision.Candidates))
	for _, part := range strings.Split(choice, ",") {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || num < 1 || num > len(decision.Candidates) {
			fmt.Fprintln(p.out, "Invalid selection:", part)
			continue
		}
		targets = append(targets, decision.Candidates[num-1])
	}
	return dedup.GroupAction{Delete: targets}, nil
}
