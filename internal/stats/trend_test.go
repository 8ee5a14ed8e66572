package stats

import (
	"testing"
	"time"

	"flow-metrics/internal/jira"
)

func TestTrend_WeeklyBuckets(t *testing.T) {
	issues := []jira.Issue{
		// ISO week 2024-W02 (Mon 2024-01-08)
		newIssue(t, "A", "Done", "2024-01-05", "2024-01-09"),
		newIssue(t, "B", "Done", "2024-01-10", "2024-01-14"),
		// ISO week 2024-W01 (Mon 2024-01-01)
		newIssue(t, "C", "Done", "2024-01-01", "2024-01-03"),
		// unresolved: ignored
		newIssue(t, "D", "In Progress", "2024-01-01", ""),
		// unparseable resolution: skipped
		newIssue(t, "E", "Done", "2024-01-01", "??"),
	}

	res := Trend(issues, time.UTC)

	if len(res.LeadTime) != 2 || len(res.CycleTime) != 2 || len(res.Throughput) != 2 {
		t.Fatalf("expected 2 weeks in every series, got %+v", res)
	}
	if res.LeadTime[0].Date != "2024-01-01" || res.LeadTime[1].Date != "2024-01-08" {
		t.Errorf("unexpected labels: %s, %s", res.LeadTime[0].Date, res.LeadTime[1].Date)
	}
	if res.LeadTime[0].Value != 2 || res.LeadTime[1].Value != 4 {
		t.Errorf("unexpected lead times: %+v", res.LeadTime)
	}
	if res.Throughput[0].Value != 1 || res.Throughput[1].Value != 2 {
		t.Errorf("unexpected throughput: %+v", res.Throughput)
	}
	for i := range res.LeadTime {
		if res.CycleTime[i] != res.LeadTime[i] {
			t.Errorf("cycle time week %d = %+v, want %+v", i, res.CycleTime[i], res.LeadTime[i])
		}
	}
}

func TestTrend_ISOYearBoundary(t *testing.T) {
	// 2024-12-30 is Monday of ISO week 2025-W01
	issues := []jira.Issue{
		newIssue(t, "A", "Done", "2024-12-20", "2024-12-31"),
		newIssue(t, "B", "Done", "2024-12-20", "2025-01-02"),
	}

	res := Trend(issues, time.UTC)
	if len(res.Throughput) != 1 {
		t.Fatalf("expected a single week, got %+v", res.Throughput)
	}
	if res.Throughput[0].Date != "2024-12-30" || res.Throughput[0].Value != 2 {
		t.Errorf("unexpected point: %+v", res.Throughput[0])
	}
}

func TestTrend_Location(t *testing.T) {
	// Sunday 23:00 UTC is Monday in UTC+2
	issues := []jira.Issue{newIssue(t, "A", "Done", "2024-01-01T00:00:00.000+0000", "2024-01-14T23:00:00.000+0000")}

	utc := Trend(issues, time.UTC)
	east := Trend(issues, time.FixedZone("UTC+2", 2*3600))

	if utc.Throughput[0].Date != "2024-01-08" {
		t.Errorf("UTC label = %s, want 2024-01-08", utc.Throughput[0].Date)
	}
	if east.Throughput[0].Date != "2024-01-15" {
		t.Errorf("UTC+2 label = %s, want 2024-01-15", east.Throughput[0].Date)
	}
}

func TestTrend_Empty(t *testing.T) {
	res := Trend(nil, nil)
	if res.LeadTime == nil || len(res.LeadTime) != 0 {
		t.Errorf("expected empty non-nil series, got %+v", res)
	}
}
