// Package schema implements the per-resource-type JSON Schema registry
// and the validator pipeline the request dispatcher runs ahead of
// every plan/apply/validate call.
package schema

import (
	"fmt"
	"strings"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// Stable, machine-readable validation outcome codes.
const (
	CodeSchemaNotFound         = "SCHEMA_NOT_FOUND"
	CodeInvalidSchemaDef       = "INVALID_SCHEMA_DEFINITION"
	CodeSchemaValidationError  = "SCHEMA_VALIDATION_ERROR"
	CodeEmptySpec              = "EMPTY_SPEC"
	CodeReservedFieldName      = "RESERVED_FIELD_NAME"
)

// ValidationError is one structured validation complaint.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationResult is the outcome of running a Validator against one
// Resource.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// Valid constructs a passing result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid constructs a failing result with the given errors.
func Invalid(errs ...ValidationError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// OnlySchemaNotFound reports whether every error in the result carries
// CodeSchemaNotFound — the dispatcher's pass-through carve-out.
func (r ValidationResult) OnlySchemaNotFound() bool {
	if len(r.Errors) == 0 {
		return false
	}
	for _, e := range r.Errors {
		if e.Code != CodeSchemaNotFound {
			return false
		}
	}
	return true
}

// JoinErrors renders every error as "path: message", joined by "; ",
// for inclusion in a -32602 response message.
func (r ValidationResult) JoinErrors() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Path, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator validates one Resource and reports a ValidationResult.
type Validator interface {
	Validate(resource sdk.Resource) ValidationResult
}

// BaselineValidator runs the two additive checks that apply regardless
// of whether a schema is registered: EMPTY_SPEC and, supplementing the
// distilled spec with a check carried over from the original
// implementation, RESERVED_FIELD_NAME for any spec key beginning with
// an underscore.
type BaselineValidator struct{}

// Validate implements Validator.
func (BaselineValidator) Validate(resource sdk.Resource) ValidationResult {
	var errs []ValidationError
	if len(resource.Spec) == 0 {
		errs = append(errs, ValidationError{
			Path:    "spec",
			Message: "spec must not be empty",
			Code:    CodeEmptySpec,
		})
	}
	for key := range resource.Spec {
		if strings.HasPrefix(key, "_") {
			errs = append(errs, ValidationError{
				Path:    "spec." + key,
				Message: fmt.Sprintf("field name %q is reserved (leading underscore)", key),
				Code:    CodeReservedFieldName,
			})
		}
	}
	if len(errs) == 0 {
		return Valid()
	}
	return Invalid(errs...)
}
