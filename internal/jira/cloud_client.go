package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/rs/zerolog/log"
)

type cloudClient struct {
	cfg        Config
	creds      Credentials
	httpClient *http.Client
}

// NewCloudClient creates a client that authenticates with email and API token.
func NewCloudClient(creds Credentials, cfg Config) Client {
	cfg = cfg.withDefaults()
	tp := gojira.BasicAuthTransport{
		Username:  creds.Email,
		Password:  creds.APIToken,
		Transport: cfg.Transport,
	}
	httpClient := tp.Client()
	httpClient.Timeout = cfg.Timeout
	return &cloudClient{
		cfg:        cfg,
		creds:      creds,
		httpClient: httpClient,
	}
}

// FetchIssues issues a single search request and maps every decodable issue.
// Records that fail to decode are logged and skipped.
func (c *cloudClient) FetchIssues(ctx context.Context) ([]Issue, error) {
	result, err := c.search(ctx)
	if err != nil {
		return nil, err
	}

	if result.Issues == nil {
		log.Warn().Object("jira", c.creds).Msg("Jira response contained no issues collection")
		return []Issue{}, nil
	}

	issues := make([]Issue, 0, len(*result.Issues))
	for i, raw := range *result.Issues {
		var dto IssueDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			log.Warn().Err(&ParseError{IssueKey: fmt.Sprintf("#%d", i), Field: "issue", Value: truncate(string(raw), 80), Err: err}).Msg("Skipping malformed issue record")
			continue
		}
		issues = append(issues, MapIssue(dto))
	}

	total, _ := result.Total.Get()
	log.Info().Int("issues", len(issues)).Int("total", total).Msg("Fetched issues from Jira")
	return issues, nil
}

func (c *cloudClient) search(ctx context.Context) (*SearchResponse, error) {
	base := strings.TrimRight(strings.TrimSpace(c.creds.BaseURL), "/")
	if base == "" {
		return nil, &FetchError{Message: "Jira base URL is empty"}
	}

	params := url.Values{}
	params.Set("jql", c.cfg.JQL)
	params.Set("maxResults", strconv.Itoa(c.cfg.PageSize))
	params.Set("expand", "changelog")
	params.Set("fields", "*all")

	searchURL := fmt.Sprintf("%s/rest/api/3/search?%s", base, params.Encode())
	log.Info().Object("jira", c.creds).Msg("Requesting issues from Jira")
	log.Debug().Str("url", searchURL).Str("jql", c.cfg.JQL).Msg("Jira search details")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &FetchError{Message: "failed to build Jira request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Message: "Jira request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Debug().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Jira error response")

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &FetchError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Jira authentication failed (%d). Please check your email and API token.", resp.StatusCode)}
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return nil, &FetchError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Jira rate limit exceeded (429). Retry after %s seconds.", retryAfter)}
			}
			return nil, &FetchError{StatusCode: resp.StatusCode, Message: "Jira rate limit exceeded (429)."}
		default:
			return nil, &FetchError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Jira API returned status %d. Please check Jira availability.", resp.StatusCode)}
		}
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: "failed to decode Jira response", Err: err}
	}
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
