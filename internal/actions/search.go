package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

const (
	unknownAuthor = "Unknown"
	noPlainText   = "[No plain text content]"
)

// SearchInput is the argument object of the search action.
type SearchInput struct {
	Query string `json:"query"`
}

// Ticket is the flattened projection of a Jira issue.
type Ticket struct {
	ID          string          `json:"id"`
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Link        string          `json:"link"`
	Comments    []TicketComment `json:"comments"`
}

// TicketComment is the flattened projection of an issue comment.
type TicketComment struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Body    string `json:"body"`
	Created string `json:"created"`
}

// SearchTickets runs in.Query as JQL and flattens up to MaxResults issues.
func (s *Service) SearchTickets(ctx context.Context, in SearchInput) ([]Ticket, error) {
	s.logger.Info("executing JQL", "jql", in.Query)

	if strings.TrimSpace(in.Query) == "" {
		return nil, invalidInput("No JQL query provided. A valid JQL string is required.")
	}

	path := jira.SearchPath(s.opts.SearchEndpoint, in.Query, map[string]string{
		"maxResults": strconv.Itoa(s.opts.MaxResults),
	})

	resp, err := s.jira.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		s.logger.Error("unexpected error during Jira search", "error", err)
		return nil, unexpected(err)
	}

	if !resp.OK() {
		s.logger.Error("Jira API error executing JQL",
			"status", resp.StatusCode,
			"body", string(resp.Body),
		)
		return nil, upstream(resp.StatusCode, "Failed to execute JQL. Status: %d. Details: %s",
			resp.StatusCode, errorDetails(resp),
		)
	}

	var result jira.SearchResult
	if err := resp.JSON(&result); err != nil {
		s.logger.Error("unexpected error during Jira search", "error", err)
		return nil, unexpected(err)
	}

	tickets := make([]Ticket, 0, len(result.Issues))
	for _, issue := range result.Issues {
		tickets = append(tickets, s.toTicket(issue))
	}
	return tickets, nil
}

// toTicket flattens a Jira issue.
func (s *Service) toTicket(issue jira.Issue) Ticket {
	t := Ticket{
		ID:          issue.Key,
		Summary:     issue.Fields.Summary,
		Description: issue.Fields.Description,
		Link:        s.opts.BrowseURL + issue.Key,
		Comments:    []TicketComment{},
	}
	if issue.Fields.Comment == nil {
		return t
	}
	for _, raw := range issue.Fields.Comment.Comments {
		c, ok := jira.ParseComment(raw)
		if !ok {
			s.logger.Warn("malformed comment, using placeholders", "ticket", issue.Key, "comment", c.ID)
		}
		t.Comments = append(t.Comments, toTicketComment(c))
	}
	return t
}

// toTicketComment flattens a comment; author and body degrade to sentinels.
func toTicketComment(c jira.Comment) TicketComment {
	author := unknownAuthor
	if c.Author != nil {
		author = c.Author.DisplayName
	}

	body := noPlainText
	if doc, ok := jira.ParseDocument(c.Body); ok {
		if text, ok := doc.FirstText(); ok {
			body = text
		}
	}

	return TicketComment{
		ID:      c.ID,
		Author:  author,
		Body:    body,
		Created: c.Created,
	}
}

// errorDetails joins Jira's errorMessages, or returns "Unknown error.".
func errorDetails(resp *jira.Response) string {
	var jerr jira.ErrorResponse
	if err := resp.JSON(&jerr); err != nil || len(jerr.ErrorMessages) == 0 {
		return "Unknown error."
	}
	return strings.Join(jerr.ErrorMessages, ", ")
}
