package eventlog

import (
	"testing"

	"flow-metrics/internal/jira"
)

func statusChange(created, from, to string) jira.History {
	return jira.History{
		Created: created,
		Items:   []jira.ChangeItem{{Field: "status", FromString: from, ToString: to}},
	}
}

func TestReconstruct_OrdersByTimestamp(t *testing.T) {
	issue := jira.Issue{
		Key: "TEST-1",
		Changelog: []jira.History{
			statusChange("2024-01-03T10:00:00.000+0000", "In Progress", "Done"),
			statusChange("2024-01-01T10:00:00.000+0000", "To Do", "In Progress"),
		},
	}

	tl := Reconstruct(issue)
	if len(tl.Transitions) != 2 {
		t.Fatalf("got %d transitions, want 2", len(tl.Transitions))
	}
	if tl.Transitions[0].ToStatus != "In Progress" || tl.Transitions[1].ToStatus != "Done" {
		t.Errorf("unexpected order: %+v", tl.Transitions)
	}
	for i, tr := range tl.Transitions {
		if tr.Seq != i {
			t.Errorf("transition %d has Seq %d", i, tr.Seq)
		}
		if i > 0 && tr.Timestamp.Before(tl.Transitions[i-1].Timestamp) {
			t.Errorf("transition %d is earlier than its predecessor", i)
		}
	}
}

func TestReconstruct_StableOnEqualTimestamps(t *testing.T) {
	ts := "2024-01-01T10:00:00.000+0000"
	issue := jira.Issue{
		Key: "TEST-2",
		Changelog: []jira.History{
			statusChange(ts, "To Do", "A"),
			statusChange(ts, "A", "B"),
			statusChange(ts, "B", "C"),
		},
	}

	for run := 0; run < 5; run++ {
		tl := Reconstruct(issue)
		got := []string{tl.Transitions[0].ToStatus, tl.Transitions[1].ToStatus, tl.Transitions[2].ToStatus}
		if got[0] != "A" || got[1] != "B" || got[2] != "C" {
			t.Fatalf("run %d: order = %v, want [A B C]", run, got)
		}
	}
}

func TestReconstruct_IgnoresOtherFieldsAndBadTimestamps(t *testing.T) {
	issue := jira.Issue{
		Key: "TEST-3",
		Changelog: []jira.History{
			{Created: "2024-01-01T10:00:00.000+0000", Items: []jira.ChangeItem{
				{Field: "assignee", ToString: "Ada"},
				{Field: "status", FromString: "To Do", ToString: "In Progress"},
			}},
			statusChange("garbage", "In Progress", "Done"),
		},
	}

	tl := Reconstruct(issue)
	if len(tl.Transitions) != 1 {
		t.Fatalf("got %d transitions, want 1", len(tl.Transitions))
	}
	if tl.Histories != 2 || tl.Unparseable != 1 {
		t.Errorf("Histories=%d Unparseable=%d, want 2/1", tl.Histories, tl.Unparseable)
	}

	var diag Diagnostics
	diag.Add(tl)
	if diag.IssuesWithChangelog != 1 || diag.Transitions != 1 || diag.Unparseable != 1 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
}

func TestCountTransitionsInto(t *testing.T) {
	issue := jira.Issue{
		Changelog: []jira.History{
			statusChange("2024-01-01T10:00:00.000+0000", "To Do", "DONE"),
			statusChange("2024-01-02T10:00:00.000+0000", "Done", "In Progress"),
			statusChange("not a date", "In Progress", "done"),
		},
	}
	if got := CountTransitionsInto(issue, "Done"); got != 2 {
		t.Errorf("CountTransitionsInto = %d, want 2", got)
	}
}
