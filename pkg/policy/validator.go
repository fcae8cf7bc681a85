package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/rego"

	"github.com/froyo-sdk/provider-sdk/pkg/schema"
	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// CodePolicyViolation is the ValidationError code reported by the
// built-in guardrail policies installed via NewBuiltinValidator.
const CodePolicyViolation = "POLICY_VIOLATION"

// builtinGuardrailRego is the fixed module NewBuiltinValidator
// installs: a small set of guardrail checks every resource is
// expected to satisfy regardless of which caller-supplied policies are
// also configured. Currently: no plaintext "password" key in spec.
const builtinGuardrailRego = `package froyo.guardrails

deny[msg] {
	input.spec.password
	msg := "spec must not contain a plaintext \"password\" key"
}
`

// Validator evaluates a Rego policy's "deny" rule against a resource,
// turning any non-empty deny set into schema.ValidationErrors. It
// implements schema.Validator.
type Validator struct {
	name        string
	packageName string
	rego        string
	code        string // overrides the default "policy:<name>" error code when set
}

// NewValidator builds a Validator for a named Rego policy. The
// policy's package declaration is extracted to build the "deny" query
// ("data.<package>.deny"); if none is found, "froyo.policies" is
// assumed. The module is not compiled here: it is compiled and
// evaluated on every Validate call, so a malformed module is reported
// there as a POLICY_EVALUATION_ERROR. Violations are reported with
// code "policy:<name>".
func NewValidator(name, regoSource string) *Validator {
	return &Validator{
		name:        name,
		packageName: extractPackageName(regoSource),
		rego:        regoSource,
	}
}

// NewBuiltinValidator returns a Validator evaluating the SDK's
// built-in guardrail policies (see builtinGuardrailRego) rather than a
// caller-supplied module. Violations are reported with code
// CodePolicyViolation, not the name-derived "policy:<name>" code
// NewValidator produces, since these guardrails are not one of the
// caller's named policies.
func NewBuiltinValidator() *Validator {
	v := NewValidator("builtin-guardrails", builtinGuardrailRego)
	v.code = CodePolicyViolation
	return v
}

func extractPackageName(regoSource string) string {
	for _, line := range strings.Split(regoSource, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			fields := strings.Fields(trimmed)
			if len(fields) >= 2 {
				return fields[1]
			}
		}
	}
	return "froyo.policies"
}

// Validate evaluates the policy's deny set against resource. Any
// non-empty deny entry becomes a ValidationError with a "policy:<name>"
// code, or with the fixed code set by NewBuiltinValidator; an
// evaluation error itself is reported as a single error.
func (v *Validator) Validate(resource sdk.Resource) schema.ValidationResult {
	query := fmt.Sprintf("data.%s.deny", v.packageName)

	r := rego.New(
		rego.Module(v.name, v.rego),
		rego.Query(query),
		rego.Input(map[string]interface{}{
			"address":  resource.Address,
			"spec":     resource.Spec,
			"metadata": resource.Metadata,
		}),
	)

	results, err := r.Eval(context.Background())
	if err != nil {
		return schema.Invalid(schema.ValidationError{
			Path:    "spec",
			Message: fmt.Sprintf("policy %q evaluation error: %v", v.name, err),
			Code:    "POLICY_EVALUATION_ERROR",
		})
	}

	code := v.code
	if code == "" {
		code = fmt.Sprintf("policy:%s", v.name)
	}

	var errs []schema.ValidationError
	for _, result := range results {
		for _, expr := range result.Expressions {
			denySet, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, d := range denySet {
				errs = append(errs, schema.ValidationError{
					Path:    "spec",
					Message: describeDenial(d),
					Code:    code,
				})
			}
		}
	}

	if len(errs) == 0 {
		return schema.Valid()
	}
	return schema.Invalid(errs...)
}

func describeDenial(d interface{}) string {
	if s, ok := d.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", d)
}
