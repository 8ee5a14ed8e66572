package stats

import (
	"time"

	"flow-metrics/internal/eventlog"
	"flow-metrics/internal/jira"
)

// CFDWindowDays is how many days before today the cumulative flow starts.
const CFDWindowDays = 30

// CumulativeFlow reconstructs the status population for each of the last
// CFDWindowDays+1 calendar days, ending today in now's location. An issue is
// counted on a day under the status set by its latest transition at or before
// the end of that day; issues without such a transition are not counted.
// Every status of the universe appears on every day, with zero if empty.
func CumulativeFlow(issues []jira.Issue, now time.Time) []FlowPoint {
	if len(issues) == 0 {
		return []FlowPoint{}
	}

	// 1. Status universe: current statuses plus every transition target
	universe := make(map[string]struct{})
	timelines := make([][]eventlog.Transition, 0, len(issues))
	for _, issue := range issues {
		if issue.Status != "" {
			universe[issue.Status] = struct{}{}
		}
		tl := eventlog.Reconstruct(issue)
		for _, tr := range tl.Transitions {
			universe[tr.ToStatus] = struct{}{}
		}
		timelines = append(timelines, tl.Transitions)
	}

	// 2. One bucket per day, today inclusive
	window := NewAnalysisWindow(now.AddDate(0, 0, -CFDWindowDays), now, "day")
	days := window.Subdivide()
	points := make([]FlowPoint, 0, len(days))

	for _, day := range days {
		counts := make(map[string]int, len(universe))
		for status := range universe {
			counts[status] = 0
		}

		dayEnd := SnapToEnd(day, "day")
		for _, transitions := range timelines {
			if status, ok := eventlog.StatusAt(transitions, dayEnd); ok {
				counts[status]++
			}
		}

		points = append(points, FlowPoint{Date: day.Format(DateLayout), StatusCounts: counts})
	}

	return points
}
