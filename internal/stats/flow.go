package stats

import (
	"strings"

	"flow-metrics/internal/eventlog"
	"flow-metrics/internal/jira"
)

// DoneCategory is the status-category name that marks finished work.
const DoneCategory = "Done"

// IsDone reports whether the issue's current status category is Done.
func IsDone(issue jira.Issue) bool {
	return strings.EqualFold(issue.StatusCategory, DoneCategory)
}

// LeadTimeDays returns resolution minus creation in fractional days. It is
// false when either timestamp is missing or unparseable.
func LeadTimeDays(issue jira.Issue) (float64, bool) {
	if issue.Created == nil || issue.Resolved == nil {
		return 0, false
	}
	return issue.Resolved.Sub(*issue.Created).Hours() / 24, true
}

// LeadTime averages LeadTimeDays over Done issues, rounded to 2 decimals.
func LeadTime(issues []jira.Issue) float64 {
	var days []float64
	for _, issue := range issues {
		if !IsDone(issue) {
			continue
		}
		if d, ok := LeadTimeDays(issue); ok {
			days = append(days, d)
		}
	}
	return Round2(Mean(days))
}

// CycleTime is currently the same computation as LeadTime; no separate
// work-start event is tracked.
func CycleTime(issues []jira.Issue) float64 {
	return LeadTime(issues)
}

// Throughput counts issues in the Done category.
func Throughput(issues []jira.Issue) int {
	n := 0
	for _, issue := range issues {
		if IsDone(issue) {
			n++
		}
	}
	return n
}

// WorkInProgress counts issues outside the Done category.
func WorkInProgress(issues []jira.Issue) int {
	return len(issues) - Throughput(issues)
}

// ReopenRate is the percentage of Done issues that entered the literal
// status "Done" more than once.
func ReopenRate(issues []jira.Issue) float64 {
	done, reopened := 0, 0
	for _, issue := range issues {
		if !IsDone(issue) {
			continue
		}
		done++
		if eventlog.CountTransitionsInto(issue, DoneCategory) > 1 {
			reopened++
		}
	}
	if done == 0 {
		return 0
	}
	return Round2(100 * float64(reopened) / float64(done))
}
