package jira

import "fmt"

// FetchError reports a failed retrieval from Jira. StatusCode is zero for
// transport failures.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError describes a value that could not be interpreted. It is logged
// and never aborts a batch.
type ParseError struct {
	IssueKey string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("issue %s: cannot parse %s %q: %v", e.IssueKey, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
