package eventlog

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DwellDurations returns, per status, the days spent between consecutive
// transitions. The interval after the last transition is still open and is
// not counted. Non-positive intervals are dropped and reported in skipped.
func DwellDurations(transitions []Transition) (durations map[string][]float64, skipped int) {
	durations = make(map[string][]float64)
	for i := 1; i < len(transitions); i++ {
		prev, curr := transitions[i-1], transitions[i]
		days := curr.Timestamp.Sub(prev.Timestamp).Hours() / 24
		if days <= 0 {
			skipped++
			log.Debug().
				Str("issue", curr.IssueKey).
				Str("status", prev.ToStatus).
				Time("from", prev.Timestamp).
				Time("to", curr.Timestamp).
				Msg("Skipping non-positive status duration")
			continue
		}
		durations[prev.ToStatus] = append(durations[prev.ToStatus], days)
	}
	return durations, skipped
}

// StatusAt returns the status set by the latest transition at or before t.
// The transitions must be ordered.
func StatusAt(transitions []Transition, t time.Time) (string, bool) {
	status, found := "", false
	for _, tr := range transitions {
		if tr.Timestamp.After(t) {
			break
		}
		status, found = tr.ToStatus, true
	}
	return status, found
}
