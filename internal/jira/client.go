package jira

import (
	"context"
	"net/http"
	"time"
)

// DefaultJQL selects every visible issue, newest first.
const DefaultJQL = "ORDER BY created DESC"

// Issue is the normalized view of a Jira issue used by the analytics layer.
type Issue struct {
	Key            string
	Summary        string
	Status         string
	StatusCategory string
	Sprint         string

	Created       *time.Time
	CreatedRaw    string
	Resolved      *time.Time
	ResolutionRaw string

	Assignee  *Assignee
	Changelog []History
}

// Assignee identifies the person an issue is assigned to.
type Assignee struct {
	AccountID   string
	Name        string
	DisplayName string
	Email       string
	AvatarURL   string
}

// Key returns the identifier used to group work by assignee.
func (a Assignee) Key() string {
	if a.AccountID != "" {
		return a.AccountID
	}
	return a.Name
}

// History is one change-log entry with its raw timestamp.
type History struct {
	ID      string
	Created string
	Items   []ChangeItem
}

// ChangeItem is a single field change within a History.
type ChangeItem struct {
	Field      string
	FromString string
	ToString   string
}

// IsResolved reports whether Jira recorded a resolution date, parseable or not.
func (i Issue) IsResolved() bool {
	return i.ResolutionRaw != ""
}

// Client is the interface for retrieving issues from Jira.
type Client interface {
	FetchIssues(ctx context.Context) ([]Issue, error)
}

// Config holds the connection settings shared by every Jira client.
type Config struct {
	// JQL defaults to DefaultJQL.
	JQL string
	// PageSize is sent as maxResults on the single search request.
	PageSize int
	Timeout  time.Duration

	// Transport is the base round tripper wrapped by the auth transport.
	Transport http.RoundTripper
}

func (c Config) withDefaults() Config {
	if c.JQL == "" {
		c.JQL = DefaultJQL
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	return c
}

// NewClient creates a new Jira client for the given credentials.
func NewClient(creds Credentials, cfg Config) Client {
	return NewCloudClient(creds, cfg)
}
