// Package rpc implements the framed JSON-RPC 2.0 provider runtime: the
// request dispatcher, the stdio server loop that hosts it, and a
// matching stdio client.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/froyo-sdk/provider-sdk/pkg/provider"
	"github.com/froyo-sdk/provider-sdk/pkg/schema"
	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// Dispatcher routes decoded JSON-RPC requests to a Provider, enforcing
// schema validation at ingress. It holds a shared, read-only reference
// to the provider and to the validator for the lifetime of the
// process; it is itself stateless across requests.
type Dispatcher struct {
	provider  provider.Provider
	validator schema.Validator
	metrics   *Metrics
}

// NewDispatcher builds a Dispatcher. validator may be nil, in which
// case no resource ever fails pre-handler validation (equivalent to
// every resource type having no schema registered).
func NewDispatcher(p provider.Provider, validator schema.Validator) *Dispatcher {
	return &Dispatcher{provider: p, validator: validator}
}

// WithMetrics attaches a Metrics recorder, returning the receiver for
// chaining.
func (d *Dispatcher) WithMetrics(m *Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// methodSet is the fixed set of routable method names (spec.md §4.D
// step 2). Anything else is -32601.
var methodSet = map[string]bool{
	"metadata":     true,
	"capabilities": true,
	"plan":         true,
	"apply":        true,
	"validate":     true,
	"import":       true,
}

// Dispatch decodes and executes one request, returning the response
// envelope to write back. It never returns an error itself — every
// failure is folded into the returned envelope, per spec.md §4.D/§7.
func (d *Dispatcher) Dispatch(ctx context.Context, req sdk.RequestEnvelope) *sdk.ResponseEnvelope {
	id := req.ID
	method := req.Method

	if !methodSet[method] {
		d.record(method, "method_not_found")
		return sdk.NewErrorEnvelope(id, sdk.CodeMethodNotFound, fmt.Sprintf("method not found: %s", method))
	}

	start := time.Now()
	result, rpcErr := d.invoke(ctx, method, req.Params)
	d.observe(method, time.Since(start))
	if rpcErr != nil {
		d.record(method, errorOutcome(rpcErr.Code))
		return sdk.NewErrorEnvelope(id, rpcErr.Code, rpcErr.Message)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		d.record(method, "serialization_error")
		return sdk.NewErrorEnvelope(id, sdk.CodeInternalError, fmt.Sprintf("failed to serialize result: %v", err))
	}

	d.record(method, "success")
	return sdk.NewSuccessEnvelope(id, encoded)
}

// dispatchError is an internal (never-wire-serialized-directly) carrier
// for a JSON-RPC code+message pair, used only inside invoke.
type dispatchError struct {
	Code    int
	Message string
}

func (e *dispatchError) Error() string { return e.Message }

func errorOutcome(code int) string {
	switch code {
	case sdk.CodeInvalidParams:
		return "invalid_params"
	case sdk.CodeProviderError:
		return "provider_error"
	case sdk.CodeInternalError:
		return "internal_error"
	default:
		return "error"
	}
}

func (d *Dispatcher) record(method, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(method, outcome)
	}
}

func (d *Dispatcher) observe(method string, elapsed time.Duration) {
	if d.metrics != nil {
		d.metrics.ObserveDuration(method, elapsed)
	}
}

// invoke performs steps 3-8 of spec.md §4.D for a single routable
// method. Returning (nil, *dispatchError) always means "the caller
// should emit that dispatchError.Code/Message"; returning (v, nil)
// means v should be marshaled into a success envelope.
func (d *Dispatcher) invoke(ctx context.Context, method string, params json.RawMessage) (interface{}, *dispatchError) {
	switch method {
	case "metadata":
		res, err := d.provider.Metadata(ctx)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil

	case "capabilities":
		res, err := d.provider.Capabilities(ctx)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil

	case "plan":
		var req provider.PlanRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, invalidParams(fmt.Sprintf("failed to decode plan params: %v", err))
		}
		if derr := d.validateAll(req.DesiredState); derr != nil {
			return nil, derr
		}
		if derr := d.validateAll(req.CurrentState); derr != nil {
			return nil, derr
		}
		res, err := d.provider.Plan(ctx, req)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil

	case "apply":
		var req provider.ApplyRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, invalidParams(fmt.Sprintf("failed to decode apply params: %v", err))
		}
		for _, change := range req.Changes {
			if change.After == nil {
				continue
			}
			if derr := d.validateOne(*change.After); derr != nil {
				return nil, derr
			}
		}
		res, err := d.provider.Apply(ctx, req)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil

	case "validate":
		var req provider.ValidateRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, invalidParams(fmt.Sprintf("failed to decode validate params: %v", err))
		}
		if derr := d.validateAll(req.Resources); derr != nil {
			return nil, derr
		}
		res, err := d.provider.Validate(ctx, req)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil

	case "import":
		var req provider.ImportRequest
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, invalidParams(fmt.Sprintf("failed to decode import params: %v", err))
		}
		res, err := d.provider.Import(ctx, req)
		if err != nil {
			return nil, providerFailure(err)
		}
		return res, nil
	}

	// Unreachable: method is already checked against methodSet by Dispatch.
	return nil, invalidParams(fmt.Sprintf("unhandled method: %s", method))
}

// validateAll runs the validator over every resource, short-circuiting
// on the first non-pass-through failure.
func (d *Dispatcher) validateAll(resources []sdk.Resource) *dispatchError {
	for _, r := range resources {
		if derr := d.validateOne(r); derr != nil {
			return derr
		}
	}
	return nil
}

func (d *Dispatcher) validateOne(r sdk.Resource) *dispatchError {
	if d.validator == nil {
		return nil
	}
	result := d.validator.Validate(r)
	if result.Valid {
		return nil
	}
	if result.OnlySchemaNotFound() {
		return nil
	}
	return invalidParams(result.JoinErrors())
}

func invalidParams(message string) *dispatchError {
	return &dispatchError{Code: sdk.CodeInvalidParams, Message: message}
}

func providerFailure(err error) *dispatchError {
	return &dispatchError{Code: sdk.CodeProviderError, Message: err.Error()}
}
