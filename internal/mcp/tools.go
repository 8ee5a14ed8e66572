package mcp

import (
	"context"

	"flow-metrics/internal/stats"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type noInput struct{}

type messageOutput struct {
	Message string `json:"message"`
}

type leadTimeOutput struct {
	LeadTime float64 `json:"leadTime" jsonschema:"mean days from creation to resolution over Done issues"`
}

type cycleTimeOutput struct {
	CycleTime float64 `json:"cycleTime" jsonschema:"mean cycle time in days"`
}

type throughputOutput struct {
	Throughput int `json:"throughput" jsonschema:"number of issues in the Done category"`
}

type wipOutput struct {
	WorkInProgress int `json:"workInProgress" jsonschema:"number of issues outside the Done category"`
}

type reopenRateOutput struct {
	ReopenRate float64 `json:"reopenRate" jsonschema:"percentage of Done issues that entered Done more than once"`
}

type timeInStatusOutput struct {
	StatusDurations []stats.StatusDuration `json:"statusDurations"`
}

type cumulativeFlowOutput struct {
	DataPoints []stats.FlowPoint `json:"dataPoints"`
}

type teamTableOutput struct {
	Members []stats.TeamRow `json:"members"`
}

type issueTableInput struct {
	Page     int `json:"page,omitempty" jsonschema:"1-indexed page number, default 1"`
	PageSize int `json:"pageSize,omitempty" jsonschema:"rows per page, default 20"`
}

// issueTableSchema bounds the pagination arguments.
func issueTableSchema() *jsonschema.Schema {
	schema, err := jsonschema.For[issueTableInput](nil)
	if err != nil {
		panic(err)
	}
	if p, ok := schema.Properties["page"]; ok {
		p.Minimum = jsonschema.Ptr(1.0)
	}
	if p, ok := schema.Properties["pageSize"]; ok {
		p.Minimum = jsonschema.Ptr(1.0)
		p.Maximum = jsonschema.Ptr(float64(stats.MaxPageSize))
	}
	return schema
}

func (s *Server) registerTools() {
	addTool(s, &sdk.Tool{
		Name:        "test_connection",
		Description: "Verify that the configured Jira credentials can load the issue set.",
	}, func(ctx context.Context, _ noInput) (messageOutput, error) {
		if err := s.svc.TestConnection(ctx, s.creds); err != nil {
			return messageOutput{}, err
		}
		return messageOutput{Message: "Connection successful"}, nil
	})

	addTool(s, &sdk.Tool{
		Name:        "get_lead_time",
		Description: "Average lead time in days (creation to resolution) over issues whose status category is Done.",
	}, func(ctx context.Context, _ noInput) (leadTimeOutput, error) {
		v, err := s.svc.LeadTime(ctx, s.creds)
		return leadTimeOutput{LeadTime: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_cycle_time",
		Description: "Average cycle time in days. Currently computed the same way as lead time.",
	}, func(ctx context.Context, _ noInput) (cycleTimeOutput, error) {
		v, err := s.svc.CycleTime(ctx, s.creds)
		return cycleTimeOutput{CycleTime: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_throughput",
		Description: "Number of issues currently in a Done-category status.",
	}, func(ctx context.Context, _ noInput) (throughputOutput, error) {
		v, err := s.svc.Throughput(ctx, s.creds)
		return throughputOutput{Throughput: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_work_in_progress",
		Description: "Number of issues not in a Done-category status.",
	}, func(ctx context.Context, _ noInput) (wipOutput, error) {
		v, err := s.svc.WorkInProgress(ctx, s.creds)
		return wipOutput{WorkInProgress: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_reopen_rate",
		Description: "Percentage of Done issues whose change-log shows more than one transition into the status named Done.",
	}, func(ctx context.Context, _ noInput) (reopenRateOutput, error) {
		v, err := s.svc.ReopenRate(ctx, s.creds)
		return reopenRateOutput{ReopenRate: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_time_in_status",
		Description: "Average days spent in each status, derived from change-log transitions. Sorted by status name.",
	}, func(ctx context.Context, _ noInput) (timeInStatusOutput, error) {
		v, err := s.svc.TimeInStatus(ctx, s.creds)
		return timeInStatusOutput{StatusDurations: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_trend",
		Description: "Weekly lead time, cycle time and throughput series grouped by ISO week of resolution, labeled by the week's Monday.",
	}, func(ctx context.Context, _ noInput) (stats.TrendResult, error) {
		return s.svc.Trend(ctx, s.creds)
	})

	addTool(s, &sdk.Tool{
		Name:        "get_cumulative_flow",
		Description: "Per-status issue counts for each of the last 31 days, today included.",
	}, func(ctx context.Context, _ noInput) (cumulativeFlowOutput, error) {
		v, err := s.svc.CumulativeFlow(ctx, s.creds)
		return cumulativeFlowOutput{DataPoints: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "get_issue_table",
		Description: "One page of issues sorted by resolution date, newest first, with lead and cycle time per row.",
		InputSchema: issueTableSchema(),
	}, func(ctx context.Context, in issueTableInput) (stats.IssueTablePage, error) {
		return s.svc.IssueTable(ctx, s.creds, in.Page, in.PageSize)
	})

	addTool(s, &sdk.Tool{
		Name:        "get_team_table",
		Description: "Per-assignee rollup of assigned and completed issues with average lead and cycle time.",
	}, func(ctx context.Context, _ noInput) (teamTableOutput, error) {
		v, err := s.svc.TeamTable(ctx, s.creds)
		return teamTableOutput{Members: v}, err
	})

	addTool(s, &sdk.Tool{
		Name:        "refresh_metrics",
		Description: "Discard the cached issue set and fetch it again from Jira.",
	}, func(ctx context.Context, _ noInput) (messageOutput, error) {
		if err := s.svc.Refresh(ctx, s.creds); err != nil {
			return messageOutput{}, err
		}
		return messageOutput{Message: "Metrics refreshed successfully"}, nil
	})
}
