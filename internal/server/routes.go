package server

import (
	"log/slog"
	"net/http"

	"github.com/gi8lino/ticketbridge/internal/handlers"
	"github.com/gi8lino/ticketbridge/internal/middleware"
)

// NewRouter creates a new HTTP router mounted under routePrefix.
func NewRouter(
	inv handlers.Invoker,
	logger *slog.Logger,
	debug bool,
	routePrefix string,
) http.Handler {
	root := http.NewServeMux()

	// Health checks (no logging)
	root.Handle("GET /healthz", handlers.Healthz())
	root.Handle("POST /healthz", handlers.Healthz())

	api := http.NewServeMux()
	api.Handle("GET /actions", handlers.ActionsHandler(inv, logger))
	api.Handle("POST /actions/{name}", handlers.ActionHandler(inv, logger))

	var apiHandler http.Handler = api
	if debug {
		apiHandler = middleware.Chain(apiHandler, middleware.LoggingMiddleware(logger))
	}

	// mount under /api/v1/
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", apiHandler))

	return mountUnderPrefix(root, routePrefix)
}
