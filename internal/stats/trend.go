package stats

import (
	"slices"
	"time"

	"flow-metrics/internal/jira"

	"github.com/rs/zerolog/log"
)

type weekBucket struct {
	monday time.Time
	days   []float64
}

// Trend groups resolved issues by the ISO week of their resolution date and
// emits one point per week in ascending order. Weeks are evaluated in loc.
// Issues with a reported but unreadable created or resolution date are
// skipped and logged.
func Trend(issues []jira.Issue, loc *time.Location) TrendResult {
	if loc == nil {
		loc = time.UTC
	}

	type weekKey struct{ year, week int }
	buckets := make(map[weekKey]*weekBucket)

	skipped := 0
	for _, issue := range issues {
		if !issue.IsResolved() {
			continue
		}
		days, ok := LeadTimeDays(issue)
		if !ok {
			skipped++
			log.Warn().
				Str("issue", issue.Key).
				Str("created", issue.CreatedRaw).
				Str("resolved", issue.ResolutionRaw).
				Msg("Skipping issue with unparseable dates in trend")
			continue
		}

		resolved := issue.Resolved.In(loc)
		year, week := resolved.ISOWeek()
		key := weekKey{year, week}
		b, ok := buckets[key]
		if !ok {
			b = &weekBucket{monday: SnapToStart(resolved, "week")}
			buckets[key] = b
		}
		b.days = append(b.days, days)
	}

	ordered := make([]*weekBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *weekBucket) int {
		return a.monday.Compare(b.monday)
	})

	res := TrendResult{
		LeadTime:   make([]TrendPoint, 0, len(ordered)),
		CycleTime:  make([]TrendPoint, 0, len(ordered)),
		Throughput: make([]TrendPoint, 0, len(ordered)),
	}
	for _, b := range ordered {
		label := b.monday.Format(DateLayout)
		avg := Round2(Mean(b.days))
		res.LeadTime = append(res.LeadTime, TrendPoint{Date: label, Value: avg})
		res.CycleTime = append(res.CycleTime, TrendPoint{Date: label, Value: avg})
		res.Throughput = append(res.Throughput, TrendPoint{Date: label, Value: float64(len(b.days))})
	}

	log.Debug().Int("weeks", len(ordered)).Int("skipped", skipped).Msg("Calculated weekly trend")
	return res
}
