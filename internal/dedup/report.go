package dedup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlanRockefeller/rmdup/pkg/models"
)

// WriteReport saves the run report as indented JSON.
func WriteReport(path string, report *models.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
