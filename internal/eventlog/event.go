package eventlog

import "time"

// Transition is a single status change replayed from an issue's change-log.
type Transition struct {
	// IssueKey is the Jira key (e.g., PROJ-123).
	IssueKey string `json:"issueKey"`
	// Timestamp is the time the change was recorded in Jira.
	Timestamp time.Time `json:"ts"`
	// FromStatus may be empty when Jira did not record the previous status.
	FromStatus string `json:"fromStatus,omitempty"`
	ToStatus   string `json:"toStatus"`
	// Seq is the position of the transition after ordering, starting at 0.
	Seq int `json:"seq"`
}

// Timeline is the ordered status history of one issue.
type Timeline struct {
	IssueKey    string
	Transitions []Transition

	// Histories is the number of change-log entries inspected.
	Histories int
	// Unparseable counts entries dropped because their timestamp could not be read.
	Unparseable int
}

// Diagnostics aggregates what was seen while replaying a batch of issues.
type Diagnostics struct {
	IssuesWithChangelog int `json:"issuesWithChangelog"`
	Histories           int `json:"histories"`
	Transitions         int `json:"transitions"`
	Unparseable         int `json:"unparseable"`
	SkippedDurations    int `json:"skippedDurations"`
}

// Add folds a timeline into the counters.
func (d *Diagnostics) Add(tl Timeline) {
	if tl.Histories > 0 {
		d.IssuesWithChangelog++
	}
	d.Histories += tl.Histories
	d.Transitions += len(tl.Transitions)
	d.Unparseable += tl.Unparseable
}
