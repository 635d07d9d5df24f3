package actions

import (
	"log/slog"
	"text/template"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

// Defaults applied by NewService when Options leave a field empty.
const (
	DefaultSearchEndpoint = "search"
	DefaultMaxResults     = 5
)

// Options tune the actions without changing their contracts.
type Options struct {
	BrowseURL      string             // prefix for issue links, e.g. https://tenant.atlassian.net/browse/
	SearchEndpoint string             // relative search path, "search" by default
	MaxResults     int                // page size of a search
	SuccessMessage *template.Template // renders the transition success message; nil uses the built-in wording
}

// Service runs the ticket actions against Jira.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	jira   jira.Requester
	logger *slog.Logger
	opts   Options
}

// NewService returns a Service talking to Jira through r.
func NewService(r jira.Requester, logger *slog.Logger, opts Options) *Service {
	if opts.SearchEndpoint == "" {
		opts.SearchEndpoint = DefaultSearchEndpoint
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{jira: r, logger: logger, opts: opts}
}
