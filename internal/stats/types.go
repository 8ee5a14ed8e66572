package stats

// StatusDuration is the mean dwell time observed for one status.
type StatusDuration struct {
	Status      string  `json:"status"`
	AverageDays float64 `json:"averageDays"`
}

// TrendPoint is one weekly value, labeled by the Monday of its ISO week.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendResult holds the weekly series. All three share the same dates.
type TrendResult struct {
	LeadTime   []TrendPoint `json:"leadTime"`
	CycleTime  []TrendPoint `json:"cycleTime"`
	Throughput []TrendPoint `json:"throughput"`
}

// FlowPoint is the per-status population of one calendar day.
type FlowPoint struct {
	Date         string         `json:"date"`
	StatusCounts map[string]int `json:"statusCounts"`
}

// IssueRow is the tabular projection of one issue.
type IssueRow struct {
	Key       string   `json:"key"`
	Summary   string   `json:"summary"`
	Created   string   `json:"created"`
	Done      string   `json:"done,omitempty"`
	LeadTime  *float64 `json:"leadTime"`
	CycleTime *float64 `json:"cycleTime"`
	Sprint    string   `json:"sprint,omitempty"`
}

// IssueTablePage is one page of rows plus the unpaginated total.
type IssueTablePage struct {
	Total  int        `json:"total"`
	Issues []IssueRow `json:"issues"`
}

// TeamRow is the per-assignee rollup.
type TeamRow struct {
	AccountID        string  `json:"accountId"`
	DisplayName      string  `json:"displayName"`
	Email            string  `json:"email"`
	AvatarURL        string  `json:"avatarUrl"`
	IssuesAssigned   int     `json:"issuesAssigned"`
	IssuesCompleted  int     `json:"issuesCompleted"`
	AverageLeadTime  float64 `json:"averageLeadTime"`
	AverageCycleTime float64 `json:"averageCycleTime"`
}
