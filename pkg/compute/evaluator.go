package compute

import (
	"context"
	"fmt"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// DefaultTimeout bounds how long a single script may run.
const DefaultTimeout = 10 * time.Second

// Evaluator runs a Starlark script per computed field against a
// Change's after.spec, returning the resolved values.
type Evaluator struct {
	timeout time.Duration
}

// NewEvaluator builds an Evaluator. A zero timeout uses DefaultTimeout.
func NewEvaluator(timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Evaluator{timeout: timeout}
}

// Field pairs a computed field name with the Starlark expression that
// resolves its value. The script's top-level "result" binding becomes
// the field's value.
type Field struct {
	Name   string
	Script string
}

// Evaluate runs one field's script against change.After.Spec, returning
// the computed value.
func (e *Evaluator) Evaluate(ctx context.Context, change sdk.Change, field Field) (interface{}, error) {
	if change.After == nil {
		return nil, sdk.NewValidationError(fmt.Sprintf("cannot compute field %q: change has no after state", field.Name), nil)
	}

	resultCh := make(chan interface{}, 1)
	errCh := make(chan error, 1)

	thread := &starlark.Thread{
		Name:  "froyo-compute",
		Print: func(*starlark.Thread, string) {},
	}

	go func() {
		v, err := e.evaluateSync(thread, change, field)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- v
	}()

	evalCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case <-evalCtx.Done():
		thread.Cancel("computed field evaluation timed out")
		return nil, sdk.NewInternalError(fmt.Sprintf("computed field %q timed out after %v", field.Name, e.timeout), evalCtx.Err())
	case err := <-errCh:
		return nil, sdk.NewInternalError(fmt.Sprintf("computed field %q failed", field.Name), err)
	case v := <-resultCh:
		return v, nil
	}
}

// EvaluateAll runs every field in order, returning a map of field name
// to resolved value. Evaluation stops at the first error.
func (e *Evaluator) EvaluateAll(ctx context.Context, change sdk.Change, fields []Field) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		v, err := e.Evaluate(ctx, change, f)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (e *Evaluator) evaluateSync(thread *starlark.Thread, change sdk.Change, field Field) (interface{}, error) {
	spec, err := toStarlarkValue(change.After.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to convert spec: %w", err)
	}

	predeclared := starlark.StringDict{
		"struct": starlarkstruct.Default,
		"spec":   spec,
	}

	globals, err := starlark.ExecFile(thread, field.Name+".star", field.Script, predeclared)
	if err != nil {
		return nil, fmt.Errorf("starlark execution failed: %w", err)
	}

	result, ok := globals["result"]
	if !ok {
		return nil, fmt.Errorf("script does not set a top-level 'result'")
	}

	return fromStarlarkValue(result)
}
