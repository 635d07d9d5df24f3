package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gi8lino/ticketbridge/internal/actions"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// maxPayloadBytes caps the size of an action argument object.
const maxPayloadBytes = 1 << 20

// Invoker runs named actions.
type Invoker interface {
	Has(name string) bool
	Names() []string
	Invoke(ctx context.Context, name string, payload json.RawMessage) any
}

// ActionHandler invokes the action named by the {name} path value with the
// JSON request body. Action failures are results and are returned with 200.
func ActionHandler(inv Invoker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if !inv.Has(name) {
			logger.Warn("unknown action", "action", name)
			writeJSON(w, http.StatusNotFound, actions.ErrorResult{Error: "Unknown action \"" + name + "\"."}, logger)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			logger.Error("read action payload", "action", name, "error", err)
			writeJSON(w, http.StatusBadRequest, actions.ErrorResult{Error: "Invalid request body."}, logger)
			return
		}

		// continue the caller's trace, if any
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		writeJSON(w, http.StatusOK, inv.Invoke(ctx, name, payload), logger)
	}
}

// ActionsHandler lists the registered action keys.
func ActionsHandler(inv Invoker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"actions": inv.Names()}, logger)
	}
}

// writeJSON encodes v with status. Encoding errors are logged, the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "error", err)
	}
}
