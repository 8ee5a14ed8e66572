package dashboard

import (
	"context"
	"time"

	"flow-metrics/internal/analytics"
	"flow-metrics/internal/cache"
	"flow-metrics/internal/jira"
	"flow-metrics/internal/stats"
)

// Service exposes every dashboard operation keyed by Jira credentials.
// Errors only come from building the engine; metric computation never fails.
type Service struct {
	cache *cache.ProviderCache
}

func NewService(c *cache.ProviderCache) *Service {
	return &Service{cache: c}
}

func (s *Service) engine(ctx context.Context, creds jira.Credentials) (*analytics.Engine, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return s.cache.GetOrCreate(ctx, creds, false)
}

func read[T any](ctx context.Context, s *Service, creds jira.Credentials, fn func(*analytics.Engine) T) (T, error) {
	e, err := s.engine(ctx, creds)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(e), nil
}

// TestConnection succeeds when an engine can be built for creds.
func (s *Service) TestConnection(ctx context.Context, creds jira.Credentials) error {
	_, err := s.engine(ctx, creds)
	return err
}

func (s *Service) LeadTime(ctx context.Context, creds jira.Credentials) (float64, error) {
	return read(ctx, s, creds, (*analytics.Engine).LeadTime)
}

func (s *Service) CycleTime(ctx context.Context, creds jira.Credentials) (float64, error) {
	return read(ctx, s, creds, (*analytics.Engine).CycleTime)
}

func (s *Service) Throughput(ctx context.Context, creds jira.Credentials) (int, error) {
	return read(ctx, s, creds, (*analytics.Engine).Throughput)
}

func (s *Service) WorkInProgress(ctx context.Context, creds jira.Credentials) (int, error) {
	return read(ctx, s, creds, (*analytics.Engine).WorkInProgress)
}

func (s *Service) ReopenRate(ctx context.Context, creds jira.Credentials) (float64, error) {
	return read(ctx, s, creds, (*analytics.Engine).ReopenRate)
}

func (s *Service) TimeInStatus(ctx context.Context, creds jira.Credentials) ([]stats.StatusDuration, error) {
	return read(ctx, s, creds, (*analytics.Engine).TimeInStatus)
}

func (s *Service) Trend(ctx context.Context, creds jira.Credentials) (stats.TrendResult, error) {
	return read(ctx, s, creds, (*analytics.Engine).Trend)
}

func (s *Service) CumulativeFlow(ctx context.Context, creds jira.Credentials) ([]stats.FlowPoint, error) {
	return read(ctx, s, creds, (*analytics.Engine).CumulativeFlow)
}

func (s *Service) IssueTable(ctx context.Context, creds jira.Credentials, page, pageSize int) (stats.IssueTablePage, error) {
	return read(ctx, s, creds, func(e *analytics.Engine) stats.IssueTablePage {
		return e.IssueTable(page, pageSize)
	})
}

func (s *Service) TeamTable(ctx context.Context, creds jira.Credentials) ([]stats.TeamRow, error) {
	return read(ctx, s, creds, (*analytics.Engine).TeamTable)
}

// Refresh reloads the issue set for creds. A cached engine keeps its previous
// set when the reload fails; without one a new engine is built.
func (s *Service) Refresh(ctx context.Context, creds jira.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	_, err := s.cache.GetOrCreate(ctx, creds, true)
	return err
}

// Summary is every scalar and series metric in one document.
type Summary struct {
	LeadTime       float64                `json:"leadTime"`
	CycleTime      float64                `json:"cycleTime"`
	Throughput     int                    `json:"throughput"`
	WorkInProgress int                    `json:"workInProgress"`
	ReopenRate     float64                `json:"reopenRate"`
	TimeInStatus   []stats.StatusDuration `json:"statusDurations"`
	Trend          stats.TrendResult      `json:"trend"`
	CumulativeFlow []stats.FlowPoint      `json:"cumulativeFlow"`
	Team           []stats.TeamRow        `json:"team"`
	Issues         int                    `json:"issues"`
	FetchedAt      time.Time              `json:"fetchedAt"`
}

// Summarize computes a Summary from a single engine snapshot.
func (s *Service) Summarize(ctx context.Context, creds jira.Credentials) (Summary, error) {
	return read(ctx, s, creds, func(e *analytics.Engine) Summary {
		return Summary{
			LeadTime:       e.LeadTime(),
			CycleTime:      e.CycleTime(),
			Throughput:     e.Throughput(),
			WorkInProgress: e.WorkInProgress(),
			ReopenRate:     e.ReopenRate(),
			TimeInStatus:   e.TimeInStatus(),
			Trend:          e.Trend(),
			CumulativeFlow: e.CumulativeFlow(),
			Team:           e.TeamTable(),
			Issues:         len(e.Issues()),
			FetchedAt:      e.FetchedAt(),
		}
	})
}
