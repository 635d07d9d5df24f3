package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gi8lino/ticketbridge/internal/hash"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gi8lino/ticketbridge/internal/actions"

// Action keys the assistant invokes.
const (
	SearchSupportTickets = "search-support-tickets"
	UpdateTicketStatus   = "update-ticket-status"
	MessageLogger        = "message-logger"
)

// Func is an action bound to its JSON argument decoding.
type Func func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher maps action keys to actions and normalizes their results.
type Dispatcher struct {
	actions map[string]Func
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewDispatcher registers the actions of s.
func NewDispatcher(s *Service, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		actions: map[string]Func{
			SearchSupportTickets: bind(s.SearchTickets),
			UpdateTicketStatus:   bind(s.UpdateTicketStatus),
			MessageLogger:        bind(s.LogMessage),
		},
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Has reports whether name is a registered action.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.actions[name]
	return ok
}

// Names returns the registered action keys in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.actions))
	for name := range d.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named action. The result is either the action's success
// payload or an ErrorResult, never both. Panics are recovered into ErrorResult.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload json.RawMessage) (result any) {
	fn, ok := d.actions[name]
	if !ok {
		return ErrorResult{Error: fmt.Sprintf("Unknown action %q.", name)}
	}

	d.logger.Debug("invoking action", "action", name, "args", hash.Payload(payload))

	ctx, span := d.tracer.Start(ctx, "action "+name, trace.WithAttributes(attribute.String("action.name", name)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("action panicked", "action", name, "panic", r)
			err := fmt.Errorf("panic: %v", r)
			markFailed(span, err)
			result = toErrorResult(err)
		}
	}()

	out, err := fn(ctx, payload)
	if err != nil {
		d.logger.Debug("action failed", "action", name, "kind", KindOf(err).String(), "error", err)
		markFailed(span, err)
		return toErrorResult(err)
	}
	return out
}

// markFailed records err and its kind on span.
func markFailed(span trace.Span, err error) {
	span.SetAttributes(attribute.String("action.error_kind", KindOf(err).String()))
	span.SetStatus(codes.Error, err.Error())
}

// bind adapts a typed action to Func.
func bind[In, Out any](fn func(context.Context, In) (Out, error)) Func {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var in In
		if len(bytes.TrimSpace(payload)) > 0 {
			if err := json.Unmarshal(payload, &in); err != nil {
				return nil, invalidInput(fmt.Sprintf("Invalid arguments: %v", err))
			}
		}
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
