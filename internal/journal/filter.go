package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilterOptions specifies criteria for filtering events.
type FilterOptions struct {
	Since      time.Duration // Only events newer than now-since (0=all)
	FailedOnly bool          // Only attempts that ended in an error
	DryRun     *bool         // Filter by dry-run flag (nil=any)
}

// Filter returns the events matching opts, preserving order.
func Filter(events []Event, opts FilterOptions) []Event {
	return filterAt(events, opts, time.Now())
}

func filterAt(events []Event, opts FilterOptions, now time.Time) []Event {
	result := make([]Event, 0, len(events))
	cutoff := now.Add(-opts.Since)

	for _, e := range events {
		if opts.Since > 0 && e.Time().Before(cutoff) {
			continue
		}
		if opts.FailedOnly && !e.Failed() {
			continue
		}
		if opts.DryRun != nil && e.DryRun != *opts.DryRun {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return 0, nil
	}

	if days, found := strings.CutSuffix(s, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	if weeks, found := strings.CutSuffix(s, "w"); found {
		n, err := strconv.Atoi(weeks)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}
