package analytics

import (
	"flow-metrics/internal/stats"

	"github.com/rs/zerolog/log"
)

// guard runs a metric computation and degrades to fallback if it panics.
func guard[T any](metric string, fallback T, fn func() T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("metric", metric).Interface("panic", r).Msg("Metric computation failed, returning default")
			result = fallback
		}
	}()
	return fn()
}

func (e *Engine) LeadTime() float64 {
	return guard("leadTime", 0.0, func() float64 {
		issues := e.Issues()
		v := stats.LeadTime(issues)
		log.Debug().Int("issues", len(issues)).Float64("days", v).Msg("Calculated lead time")
		return v
	})
}

func (e *Engine) CycleTime() float64 {
	return guard("cycleTime", 0.0, func() float64 {
		return stats.CycleTime(e.Issues())
	})
}

func (e *Engine) Throughput() int {
	return guard("throughput", 0, func() int {
		return stats.Throughput(e.Issues())
	})
}

func (e *Engine) WorkInProgress() int {
	return guard("workInProgress", 0, func() int {
		return stats.WorkInProgress(e.Issues())
	})
}

func (e *Engine) ReopenRate() float64 {
	return guard("reopenRate", 0.0, func() float64 {
		issues := e.Issues()
		v := stats.ReopenRate(issues)
		log.Debug().Int("issues", len(issues)).Float64("percent", v).Msg("Calculated reopen rate")
		return v
	})
}

func (e *Engine) TimeInStatus() []stats.StatusDuration {
	return guard("timeInStatus", []stats.StatusDuration{}, func() []stats.StatusDuration {
		res, diag := stats.TimeInStatus(e.Issues())
		log.Info().
			Int("issuesWithChangelog", diag.IssuesWithChangelog).
			Int("histories", diag.Histories).
			Int("transitions", diag.Transitions).
			Int("unparseable", diag.Unparseable).
			Int("skippedDurations", diag.SkippedDurations).
			Int("statuses", len(res)).
			Msg("Calculated time in status")
		return res
	})
}

func (e *Engine) Trend() stats.TrendResult {
	empty := stats.TrendResult{LeadTime: []stats.TrendPoint{}, CycleTime: []stats.TrendPoint{}, Throughput: []stats.TrendPoint{}}
	return guard("trend", empty, func() stats.TrendResult {
		return stats.Trend(e.Issues(), e.loc)
	})
}

func (e *Engine) CumulativeFlow() []stats.FlowPoint {
	return guard("cumulativeFlow", []stats.FlowPoint{}, func() []stats.FlowPoint {
		return stats.CumulativeFlow(e.Issues(), e.now().In(e.loc))
	})
}

func (e *Engine) IssueTable(page, pageSize int) stats.IssueTablePage {
	return guard("issueTable", stats.IssueTablePage{Issues: []stats.IssueRow{}}, func() stats.IssueTablePage {
		return stats.IssueTable(e.Issues(), page, pageSize)
	})
}

func (e *Engine) TeamTable() []stats.TeamRow {
	return guard("teamTable", []stats.TeamRow{}, func() []stats.TeamRow {
		return stats.TeamTable(e.Issues())
	})
}
