package stats

import (
	"testing"
	"time"

	"flow-metrics/internal/jira"
)

// newIssue builds an issue from raw Jira timestamps, parsing them the same way the mapper does.
func newIssue(t *testing.T, key, category, created, resolved string) jira.Issue {
	t.Helper()
	issue := jira.Issue{
		Key:            key,
		Summary:        "Summary of " + key,
		Status:         category,
		StatusCategory: category,
		CreatedRaw:     created,
		ResolutionRaw:  resolved,
	}
	if created != "" {
		if ts, err := jira.ParseTime(created); err == nil {
			issue.Created = &ts
		}
	}
	if resolved != "" {
		if ts, err := jira.ParseTime(resolved); err == nil {
			issue.Resolved = &ts
		}
	}
	return issue
}

func history(created string, from, to string) jira.History {
	return jira.History{
		Created: created,
		Items:   []jira.ChangeItem{{Field: "status", FromString: from, ToString: to}},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
