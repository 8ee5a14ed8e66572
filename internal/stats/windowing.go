package stats

import "time"

// DateLayout is the calendar-date format used in every series label.
const DateLayout = "2006-01-02"

// AnalysisWindow is a closed range of calendar buckets.
type AnalysisWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Bucket string    `json:"bucket"` // "day", "week"
}

// NewAnalysisWindow creates a window snapped to whole buckets.
func NewAnalysisWindow(start, end time.Time, bucket string) AnalysisWindow {
	if bucket == "" {
		bucket = "day"
	}
	return AnalysisWindow{
		Start:  SnapToStart(start, bucket),
		End:    SnapToEnd(end, bucket),
		Bucket: bucket,
	}
}

// SnapToStart normalizes a timestamp to the beginning of its bucket (0:00:00).
func SnapToStart(t time.Time, bucket string) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case "week":
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// SnapToEnd normalizes a timestamp to the very end of its bucket (23:59:59.999...).
func SnapToEnd(t time.Time, bucket string) time.Time {
	if t.IsZero() {
		return t
	}
	switch bucket {
	case "week":
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()+(7-weekday), 23, 59, 59, 999999999, t.Location())
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
	}
}

// Subdivide returns the start of every bucket within the window.
func (w AnalysisWindow) Subdivide() []time.Time {
	var buckets []time.Time
	for current := w.Start; !current.After(w.End); {
		buckets = append(buckets, current)
		switch w.Bucket {
		case "week":
			current = current.AddDate(0, 0, 7)
		default:
			current = current.AddDate(0, 0, 1)
		}
	}
	return buckets
}
