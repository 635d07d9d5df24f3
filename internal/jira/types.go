package jira

import (
	"encoding/json"
	"strconv"
)

// SearchResult represents the top-level structure from the JIRA search API
type SearchResult struct {
	Issues []Issue `json:"issues"`
}

// Issue represents a single issue in the search result
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields represents the inner fields of a JIRA issue
type Fields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"` // ADF on v3, plain text on v2
	Comment     *CommentPage    `json:"comment"`               // nullable
}

// CommentPage is the embedded comment field of an issue. Comments stay raw
// so one malformed comment does not fail the whole issue.
type CommentPage struct {
	Comments []json.RawMessage `json:"comments"`
}

// Comment is a single issue comment, see ParseComment.
type Comment struct {
	ID      string          `json:"id"`
	Author  *User           `json:"author"` // nullable
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
}

// User represents the assignee, reporter or comment author
type User struct {
	DisplayName string `json:"displayName"`
}

// Status represents the status a transition leads to
type Status struct {
	Name string `json:"name"`
}

// TransitionsResult is returned by GET issue/{key}/transitions.
type TransitionsResult struct {
	Transitions []Transition `json:"transitions"`
}

// Transition is a workflow edge currently available for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	To   Status `json:"to"`
}

// TransitionRequest is the body of POST issue/{key}/transitions.
type TransitionRequest struct {
	Transition TransitionRef `json:"transition"`
	Update     *IssueUpdate  `json:"update,omitempty"`
}

// TransitionRef selects a transition by id.
type TransitionRef struct {
	ID string `json:"id"`
}

// IssueUpdate holds field operations applied along with a transition.
type IssueUpdate struct {
	Comment []CommentOperation `json:"comment"`
}

// CommentOperation is a single entry of update.comment.
type CommentOperation struct {
	Add CommentAdd `json:"add"`
}

// CommentAdd carries the body of a comment to add.
type CommentAdd struct {
	Body CommentDocument `json:"body"`
}

// ErrorResponse is the error body Jira returns for failed requests.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// ParseComment decodes one raw comment. When the typed decode fails, the id
// and created values are still recovered if present; ok is then false.
func ParseComment(raw json.RawMessage) (c Comment, ok bool) {
	if err := json.Unmarshal(raw, &c); err == nil {
		return c, true
	}

	var loose map[string]any
	_ = json.Unmarshal(raw, &loose)
	return Comment{
		ID:      looseString(loose["id"]),
		Created: looseString(loose["created"]),
	}, false
}

// looseString renders JSON strings and numbers as text, anything else as "".
func looseString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
