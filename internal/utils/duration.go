package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour up.
// Negative input renders as 0:00.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// ParseDuration accepts either plain seconds or the M:SS / H:MM:SS form
// produced by FormatDuration.
func ParseDuration(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := strings.Split(input, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", input)
	}

	total := 0
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if i > 0 && value >= 60 {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		total = total*60 + value
	}

	return total, nil
}
