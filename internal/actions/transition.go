package actions

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

// TransitionInput is the argument object of the update action.
// Comment is nil when the caller sent no comment at all.
type TransitionInput struct {
	TicketKey string  `json:"ticketKey"`
	Status    string  `json:"status"`
	Comment   *string `json:"comment,omitempty"`
}

// TransitionResult confirms a performed transition.
// NewStatus echoes the requested status; it is not re-read from Jira.
type TransitionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TicketKey string `json:"ticketKey"`
	NewStatus string `json:"newStatus"`
}

// messageData is exposed to the success message template.
type messageData struct {
	TicketKey  string
	Status     string
	Transition jira.Transition
	Comment    string
	HasComment bool
}

// UpdateTicketStatus moves in.TicketKey to in.Status and optionally comments.
// Transitions are fetched on every call; discovery and execution are not
// atomic, so a workflow change between the two calls surfaces as an upstream error.
func (s *Service) UpdateTicketStatus(ctx context.Context, in TransitionInput) (TransitionResult, error) {
	if strings.TrimSpace(in.TicketKey) == "" || strings.TrimSpace(in.Status) == "" {
		return TransitionResult{}, invalidInput("Both ticketKey and status are required.")
	}

	path := jira.TransitionsPath(in.TicketKey)

	available, err := s.transitions(ctx, in.TicketKey, path)
	if err != nil {
		return TransitionResult{}, err
	}

	match, ok := matchTransition(available, in.Status)
	if !ok {
		s.logger.Warn("no matching transition",
			"ticket", in.TicketKey,
			"status", in.Status,
			"available", transitionNames(available),
		)
		return TransitionResult{}, &Error{
			Kind:    KindNoMatchingTransition,
			Message: fmt.Sprintf("Status '%s' is not an available transition for ticket %s.", in.Status, in.TicketKey),
		}
	}

	payload := buildTransitionRequest(match.ID, in.Comment)

	resp, err := s.jira.Request(ctx, http.MethodPost, path, payload)
	if err != nil {
		s.logger.Error("unexpected error transitioning ticket", "ticket", in.TicketKey, "error", err)
		return TransitionResult{}, unexpected(err)
	}
	if !resp.OK() {
		s.logger.Error("Jira API error transitioning ticket",
			"ticket", in.TicketKey,
			"transition", match.ID,
			"status", resp.StatusCode,
			"body", string(resp.Body),
		)
		return TransitionResult{}, upstream(resp.StatusCode, "Failed to update ticket %s. Status: %d", in.TicketKey, resp.StatusCode)
	}

	data := messageData{
		TicketKey:  in.TicketKey,
		Status:     in.Status,
		Transition: match,
		HasComment: in.Comment != nil,
	}
	if in.Comment != nil {
		data.Comment = *in.Comment
	}

	s.logger.Info("ticket transitioned", "ticket", in.TicketKey, "status", in.Status, "transition", match.ID)

	return TransitionResult{
		Success:   true,
		Message:   s.successMessage(data),
		TicketKey: in.TicketKey,
		NewStatus: in.Status,
	}, nil
}

// transitions fetches the transitions currently legal for key.
func (s *Service) transitions(ctx context.Context, key, path string) ([]jira.Transition, error) {
	resp, err := s.jira.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		s.logger.Error("unexpected error fetching transitions", "ticket", key, "error", err)
		return nil, unexpected(err)
	}
	if !resp.OK() {
		s.logger.Error("Jira API error fetching transitions",
			"ticket", key,
			"status", resp.StatusCode,
			"body", string(resp.Body),
		)
		return nil, upstream(resp.StatusCode, "Failed to fetch transitions for ticket %s. Status: %d", key, resp.StatusCode)
	}

	var result jira.TransitionsResult
	if err := resp.JSON(&result); err != nil {
		s.logger.Error("unexpected error fetching transitions", "ticket", key, "error", err)
		return nil, unexpected(err)
	}
	return result.Transitions, nil
}

// matchTransition returns the first transition whose target status equals status, ignoring case.
func matchTransition(available []jira.Transition, status string) (jira.Transition, bool) {
	for _, t := range available {
		if strings.EqualFold(t.To.Name, status) {
			return t, true
		}
	}
	return jira.Transition{}, false
}

// buildTransitionRequest composes the transition body. A nil comment leaves update out entirely.
func buildTransitionRequest(id string, comment *string) jira.TransitionRequest {
	req := jira.TransitionRequest{Transition: jira.TransitionRef{ID: id}}
	if comment == nil {
		return req
	}
	req.Update = &jira.IssueUpdate{
		Comment: []jira.CommentOperation{{
			Add: jira.CommentAdd{Body: jira.NewParagraphDocument(*comment)},
		}},
	}
	return req
}

// successMessage renders the configured template, falling back to the built-in wording.
func (s *Service) successMessage(data messageData) string {
	if tmpl := s.opts.SuccessMessage; tmpl != nil {
		var b strings.Builder
		err := tmpl.Execute(&b, data)
		if err == nil {
			return b.String()
		}
		s.logger.Warn("rendering success message failed", "error", err)
	}
	msg := fmt.Sprintf("Ticket %s transitioned to '%s'", data.TicketKey, data.Status)
	if data.HasComment {
		msg += " with a comment"
	}
	return msg + "."
}

// transitionNames lists the target status names for diagnostics.
func transitionNames(available []jira.Transition) []string {
	names := make([]string, 0, len(available))
	for _, t := range available {
		names = append(names, t.To.Name)
	}
	return names
}
