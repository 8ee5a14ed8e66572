package stats

import (
	"slices"
	"strings"

	"flow-metrics/internal/eventlog"
	"flow-metrics/internal/jira"
)

// TimeInStatus computes the mean dwell time per status across all issues.
// Statuses with no positive durations are omitted. The result is sorted by
// status name; averages are not rounded.
func TimeInStatus(issues []jira.Issue) ([]StatusDuration, eventlog.Diagnostics) {
	var diag eventlog.Diagnostics
	all := make(map[string][]float64)

	for _, issue := range issues {
		tl := eventlog.Reconstruct(issue)
		diag.Add(tl)

		durations, skipped := eventlog.DwellDurations(tl.Transitions)
		diag.SkippedDurations += skipped
		for status, days := range durations {
			all[status] = append(all[status], days...)
		}
	}

	results := make([]StatusDuration, 0, len(all))
	for status, days := range all {
		results = append(results, StatusDuration{Status: status, AverageDays: Mean(days)})
	}
	slices.SortFunc(results, func(a, b StatusDuration) int {
		return strings.Compare(a.Status, b.Status)
	})

	return results, diag
}
