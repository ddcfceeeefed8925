// Package rpc is the single query/mutation front end. It deserializes an
// inbound call into an operation name plus typed input, resolves the caller
// identity once from the token header, gates the call against the
// operation's descriptor, and shapes every outcome into the uniform result
// envelope.
package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/platform/httpx"
	"github.com/inkpress/inkpress/internal/shared"
)

// TokenHeader is the side channel carrying the caller-supplied bearer token.
const TokenHeader = "token"

// HandlerFunc executes one operation. The principal is nil for public calls;
// the returned value is serialized as-is and must embed shared.Envelope.
type HandlerFunc func(ctx *Call) any

// Call bundles everything a handler may need for one invocation.
type Call struct {
	Request   *http.Request
	Principal *shared.Principal
	Input     json.RawMessage
}

type operation struct {
	descriptor *auth.Descriptor
	handle     HandlerFunc
}

// Dispatcher routes calls by operation name.
type Dispatcher struct {
	logger   *slog.Logger
	resolver *auth.Resolver
	validate *validator.Validate
	ops      map[string]operation
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(logger *slog.Logger, resolver *auth.Resolver) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		resolver: resolver,
		validate: validator.New(),
		ops:      make(map[string]operation),
	}
}

// Register adds an operation. A nil descriptor makes the operation public.
func (d *Dispatcher) Register(name string, desc *auth.Descriptor, handle HandlerFunc) {
	d.ops[name] = operation{descriptor: desc, handle: handle}
}

type callRequest struct {
	Operation string          `json:"operation"`
	Input     json.RawMessage `json:"input"`
}

// ServeHTTP handles POST /api/query. Every operation outcome, success or
// failure, is an HTTP 200 carrying the envelope; only a body that cannot be
// decoded at all is rejected at the transport level.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "request body must be a JSON object")
		return
	}
	op, ok := d.ops[req.Operation]
	if !ok {
		d.logger.Warn("unknown operation", slog.String("operation", req.Operation))
		httpx.JSON(w, http.StatusOK, shared.Fail("Unknown operation"))
		return
	}

	principal := d.resolver.Resolve(r.Context(), r.Header.Get(TokenHeader))
	if err := auth.Authorize(op.descriptor, principal); err != nil {
		d.logger.Info("call denied",
			slog.String("operation", req.Operation),
			slog.String("kind", shared.KindOf(err).String()),
		)
		httpx.JSON(w, http.StatusOK, shared.Fail(err.Error()))
		return
	}

	ctx := shared.ContextWithPrincipal(r.Context(), principal)
	out := op.handle(&Call{
		Request:   r.WithContext(ctx),
		Principal: principal,
		Input:     req.Input,
	})
	httpx.JSON(w, http.StatusOK, out)
}

// bind decodes and validates an operation input. Validation failures are the
// transport-level error class: they never reach a service.
func (d *Dispatcher) bind(call *Call, target any) error {
	if len(call.Input) > 0 {
		if err := json.Unmarshal(call.Input, target); err != nil {
			return shared.New(shared.KindValidation, "Invalid input")
		}
	}
	if err := d.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return shared.Newf(shared.KindValidation, "Invalid input: %s", fieldErrs[0].Field())
		}
		return shared.New(shared.KindValidation, "Invalid input")
	}
	return nil
}

// failure logs a classified error and shapes it into a failure envelope.
// Internal faults are logged at error level and replaced with a generic
// message so raw faults never reach the transport.
func (d *Dispatcher) failure(operation string, err error) shared.Envelope {
	kind := shared.KindOf(err)
	if kind == shared.KindInternal {
		d.logger.Error("operation failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return shared.Fail(shared.ErrInternal.Message)
	}
	d.logger.Debug("operation rejected",
		slog.String("operation", operation),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	)
	return shared.Fail(err.Error())
}
