package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize converts a human-readable size ("512", "100KB", "1MB") to bytes.
// An empty string means no limit and returns 0.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	upper := strings.ToUpper(s)

	var multiplier int64
	var numStr string

	switch {
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		numStr = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		numStr = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "B"):
		multiplier = 1
		numStr = upper[:len(upper)-1]
	default:
		// Assume bytes
		multiplier = 1
		numStr = upper
	}

	n, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q (examples: 4096, 100KB, 1MB)", s)
	}

	return n * multiplier, nil
}
