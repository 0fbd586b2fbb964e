package filesystem

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize parses a human-readable size string (e.g. "1M", "500 KB", "1024")
// into a byte count. Units are powers of 1024; a trailing "B" is optional and
// whitespace between number and unit is allowed.
func ParseSize(sizeStr string) (int64, error) {
	s := strings.TrimSpace(sizeStr)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	// Split number from unit suffix.
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	numPart := strings.TrimSpace(s[:i])
	unitPart := strings.ToUpper(strings.TrimSpace(s[i:]))

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	case "T", "TB":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size unit %q", unitPart)
	}

	if numPart == "" {
		return 0, fmt.Errorf("invalid size %q", sizeStr)
	}
	if n, err := strconv.ParseInt(numPart, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative size %q", sizeStr)
		}
		return n * multiplier, nil
	}
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid size %q", sizeStr)
	}
	return int64(f * float64(multiplier)), nil
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}
