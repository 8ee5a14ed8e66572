package jira

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// SearchResponse is the top-level container for Jira search results. Issues
// are kept raw so that one malformed record does not fail the whole page.
type SearchResponse struct {
	Total  Optional[int]      `json:"total"`
	Issues *[]json.RawMessage `json:"issues"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	Key       string                 `json:"key"`
	Fields    FieldsDTO              `json:"fields"`
	Changelog Optional[ChangelogDTO] `json:"changelog"`
}

// FieldsDTO contains the specific fields we care about. Every field is
// optional: a missing or mistyped value reads as absent.
type FieldsDTO struct {
	Summary        Optional[string]      `json:"summary"`
	Status         Optional[StatusDTO]   `json:"status"`
	Created        Optional[string]      `json:"created"`
	ResolutionDate Optional[string]      `json:"resolutiondate"`
	Assignee       Optional[UserDTO]     `json:"assignee"`
	Sprint         Optional[string]      `json:"sprint"`
	Sprints        Optional[[]SprintDTO] `json:"customfield_10020"`
	LegacySprints  Optional[[]SprintDTO] `json:"customfield_10021"`
}

type StatusDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StatusCategory struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"statusCategory"`
}

type UserDTO struct {
	AccountID    string            `json:"accountId"`
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	EmailAddress string            `json:"emailAddress"`
	AvatarURLs   map[string]string `json:"avatarUrls"`
}

type SprintDTO struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// ChangelogDTO contains historical transitions.
type ChangelogDTO struct {
	Histories []HistoryDTO `json:"histories"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	ID      string    `json:"id"`
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// Optional holds a JSON value that may be missing, null, or of an unexpected
// shape. Only a value that decodes cleanly is marked as set.
type Optional[T any] struct {
	Value T
	Set   bool
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	o.Value = v
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp formats Jira emits. Values without an
// offset are read as UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp format")
}
