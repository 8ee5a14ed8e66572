package stats

import (
	"slices"

	"flow-metrics/internal/jira"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// IssueTable sorts issues by resolution date, newest first, with unresolved
// issues last, and returns the requested 1-indexed page.
func IssueTable(issues []jira.Issue, page, pageSize int) IssueTablePage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)

	sorted := slices.Clone(issues)
	slices.SortStableFunc(sorted, func(a, b jira.Issue) int {
		switch {
		case a.Resolved == nil && b.Resolved == nil:
			return 0
		case a.Resolved == nil:
			return 1
		case b.Resolved == nil:
			return -1
		}
		return b.Resolved.Compare(*a.Resolved)
	})

	res := IssueTablePage{Total: len(sorted), Issues: []IssueRow{}}

	start := (page - 1) * pageSize
	if start >= len(sorted) {
		return res
	}
	end := min(start+pageSize, len(sorted))

	res.Issues = make([]IssueRow, 0, end-start)
	for _, issue := range sorted[start:end] {
		res.Issues = append(res.Issues, issueRow(issue))
	}
	return res
}

func issueRow(issue jira.Issue) IssueRow {
	row := IssueRow{
		Key:     issue.Key,
		Summary: issue.Summary,
		Created: issue.CreatedRaw,
		Done:    issue.ResolutionRaw,
		Sprint:  issue.Sprint,
	}
	if issue.Created != nil {
		row.Created = issue.Created.Format(DateLayout)
	}
	if issue.Resolved != nil {
		row.Done = issue.Resolved.Format(DateLayout)
	}
	if days, ok := LeadTimeDays(issue); ok {
		lead := Round2(days)
		cycle := lead
		row.LeadTime = &lead
		row.CycleTime = &cycle
	}
	return row
}
