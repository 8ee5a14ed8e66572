package mcp

import (
	"context"
	"time"

	"flow-metrics/internal/dashboard"
	"flow-metrics/internal/jira"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const instructions = "Flow metrics for the configured Jira Cloud tenant. " +
	"All tools read the same cached issue set; call refresh_metrics to refetch it from Jira. " +
	"Durations are in fractional days. Cycle time currently equals lead time because no separate work-start event is tracked."

// Server exposes the dashboard operations as MCP tools for one credentials tuple.
type Server struct {
	svc    *dashboard.Service
	creds  jira.Credentials
	server *sdk.Server
}

// NewServer creates a new MCP server and registers every tool.
func NewServer(svc *dashboard.Service, creds jira.Credentials, version string) *Server {
	s := &Server{
		svc:   svc,
		creds: creds,
		server: sdk.NewServer(&sdk.Implementation{
			Name:    "flow-metrics",
			Version: version,
		}, &sdk.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Object("jira", s.creds).Msg("Starting MCP server on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// addTool registers a typed tool whose errors are reported as tool results.
func addTool[In, Out any](s *Server, tool *sdk.Tool, fn func(ctx context.Context, in In) (Out, error)) {
	sdk.AddTool(s.server, tool, func(ctx context.Context, req *sdk.CallToolRequest, in In) (*sdk.CallToolResult, Out, error) {
		start := time.Now()
		out, err := fn(ctx, in)
		if err != nil {
			log.Error().Err(err).Str("tool", tool.Name).Msg("Tool call failed")
			var zero Out
			return nil, zero, err
		}
		log.Info().Str("tool", tool.Name).Dur("elapsed", time.Since(start)).Msg("Tool call completed")
		return nil, out, nil
	})
}
