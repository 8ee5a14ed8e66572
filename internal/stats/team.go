package stats

import (
	"flow-metrics/internal/jira"
)

type teamAccumulator struct {
	row       TeamRow
	leadSum   float64
	cycleSum  float64
	completed int
}

// TeamTable rolls issues up per assignee, in order of first appearance.
// Completed means Jira reported a resolution date. Lead and cycle sums only
// include completed issues with readable dates but are divided by the full
// completed count.
func TeamTable(issues []jira.Issue) []TeamRow {
	index := make(map[string]*teamAccumulator)
	var order []*teamAccumulator

	for _, issue := range issues {
		if issue.Assignee == nil {
			continue
		}
		id := issue.Assignee.Key()
		if id == "" {
			continue
		}

		acc, ok := index[id]
		if !ok {
			acc = &teamAccumulator{row: TeamRow{
				AccountID:   id,
				DisplayName: issue.Assignee.DisplayName,
				Email:       issue.Assignee.Email,
				AvatarURL:   issue.Assignee.AvatarURL,
			}}
			if acc.row.DisplayName == "" {
				acc.row.DisplayName = issue.Assignee.Name
			}
			index[id] = acc
			order = append(order, acc)
		}

		acc.row.IssuesAssigned++
		if !issue.IsResolved() {
			continue
		}
		acc.completed++
		if days, ok := LeadTimeDays(issue); ok {
			acc.leadSum += days
			acc.cycleSum += days
		}
	}

	rows := make([]TeamRow, 0, len(order))
	for _, acc := range order {
		row := acc.row
		row.IssuesCompleted = acc.completed
		if acc.completed > 0 {
			row.AverageLeadTime = Round2(acc.leadSum / float64(acc.completed))
			row.AverageCycleTime = Round2(acc.cycleSum / float64(acc.completed))
		}
		rows = append(rows, row)
	}
	return rows
}
