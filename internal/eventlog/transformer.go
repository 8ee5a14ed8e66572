package eventlog

import (
	"slices"
	"strings"
	"time"

	"flow-metrics/internal/jira"

	"github.com/rs/zerolog/log"
)

// Reconstruct replays an issue's change-log into an ordered list of status
// transitions. Entries are ordered by timestamp; entries sharing a timestamp
// keep their original change-log order.
func Reconstruct(issue jira.Issue) Timeline {
	tl := Timeline{IssueKey: issue.Key, Histories: len(issue.Changelog)}

	type dated struct {
		ts      time.Time
		history jira.History
	}

	entries := make([]dated, 0, len(issue.Changelog))
	for _, h := range issue.Changelog {
		ts, err := jira.ParseTime(h.Created)
		if err != nil {
			tl.Unparseable++
			log.Debug().Err(&jira.ParseError{IssueKey: issue.Key, Field: "history.created", Value: h.Created, Err: err}).Msg("Skipping change-log entry")
			continue
		}
		entries = append(entries, dated{ts: ts, history: h})
	}

	slices.SortStableFunc(entries, func(a, b dated) int {
		return a.ts.Compare(b.ts)
	})

	for _, e := range entries {
		for _, item := range e.history.Items {
			if item.Field != "status" || item.ToString == "" {
				continue
			}
			tl.Transitions = append(tl.Transitions, Transition{
				IssueKey:   issue.Key,
				Timestamp:  e.ts,
				FromStatus: item.FromString,
				ToStatus:   item.ToString,
				Seq:        len(tl.Transitions),
			})
		}
	}

	return tl
}

// CountTransitionsInto counts status changes whose target matches status,
// ignoring case. It reads the raw change-log, so entries with unreadable
// timestamps still count.
func CountTransitionsInto(issue jira.Issue, status string) int {
	count := 0
	for _, h := range issue.Changelog {
		for _, item := range h.Items {
			if item.Field == "status" && strings.EqualFold(item.ToString, status) {
				count++
			}
		}
	}
	return count
}
